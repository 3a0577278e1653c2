// Package campaign holds the crowdfund contract domain: the campaign record,
// its lifecycle rules, the contribution ledger arithmetic, and the
// creator-authored roadmap and stretch goal registries.
//
// Every operation is a pure function of the aggregate, the verified caller
// identity, and the current time. Operations return an updated copy of the
// record; callers persist the copy atomically or discard it on error, so a
// failed call never leaves partial state behind.
package campaign
