package caselaw

import "errors"

var (
	// ErrPolicyDenied means robots.txt forbids the campaign's crawl paths.
	ErrPolicyDenied = errors.New("caselaw: crawl denied by robots policy")

	// ErrStoreUnavailable wraps failures opening or preparing the database.
	ErrStoreUnavailable = errors.New("caselaw: store unavailable")

	// ErrCampaignRunning guards against overlapping campaign runs on one
	// service instance.
	ErrCampaignRunning = errors.New("caselaw: campaign already running")
)
