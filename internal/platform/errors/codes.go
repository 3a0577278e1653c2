// Package errors provides structured domain errors for the crowdfund contract.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Initialization errors
	CodeAlreadyInitialized Code = "ALREADY_INITIALIZED"
	CodeNotInitialized     Code = "NOT_INITIALIZED"
	CodeInvalidGoal        Code = "INVALID_GOAL"
	CodeInvalidDeadline    Code = "INVALID_DEADLINE"
	CodeInvalidAsset       Code = "INVALID_ASSET"
	CodeInvalidCodeRef     Code = "INVALID_CODE_REF"

	// Authority errors
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeCallerGrantInvalid Code = "CALLER_GRANT_INVALID"
	CodeCallerGrantExpired Code = "CALLER_GRANT_EXPIRED"

	// Lifecycle errors
	CodeCampaignNotActive  Code = "CAMPAIGN_NOT_ACTIVE"
	CodeCampaignNotExpired Code = "CAMPAIGN_NOT_EXPIRED"
	CodeCampaignExpired    Code = "CAMPAIGN_EXPIRED"
	CodeGoalNotReached     Code = "GOAL_NOT_REACHED"
	CodeGoalAlreadyReached Code = "GOAL_ALREADY_REACHED"
	CodeAlreadyWithdrawn   Code = "ALREADY_WITHDRAWN"

	// Ledger errors
	CodeInvalidAmount      Code = "INVALID_AMOUNT"
	CodeNoContribution     Code = "NO_CONTRIBUTION"
	CodeArithmeticOverflow Code = "ARITHMETIC_OVERFLOW"
	CodeTransferFailed     Code = "TRANSFER_FAILED"

	// Roadmap and stretch goal errors
	CodeInvalidRoadmapDate         Code = "INVALID_ROADMAP_DATE"
	CodeEmptyDescription           Code = "EMPTY_DESCRIPTION"
	CodeStretchGoalThresholdTooLow Code = "STRETCH_GOAL_THRESHOLD_TOO_LOW"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidGoal,
		CodeInvalidDeadline,
		CodeInvalidAsset,
		CodeInvalidCodeRef,
		CodeInvalidAmount,
		CodeInvalidRoadmapDate,
		CodeEmptyDescription,
		CodeStretchGoalThresholdTooLow:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeNotInitialized,
		CodeCampaignNotActive,
		CodeCampaignNotExpired,
		CodeCampaignExpired,
		CodeGoalNotReached,
		CodeGoalAlreadyReached,
		CodeAlreadyWithdrawn,
		CodeNoContribution:
		return codes.FailedPrecondition

	// AlreadyExists - double initialization
	case CodeAlreadyInitialized:
		return codes.AlreadyExists

	// PermissionDenied - wrong caller for a privileged op
	case CodeUnauthorized,
		CodeCallerGrantInvalid,
		CodeCallerGrantExpired:
		return codes.PermissionDenied

	// OutOfRange - checked arithmetic refused to wrap
	case CodeArithmeticOverflow:
		return codes.OutOfRange

	// Aborted - the value-transfer collaborator failed mid-call
	case CodeTransferFailed:
		return codes.Aborted

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
