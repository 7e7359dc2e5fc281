package news

// FetchStatus tells callers how a list of articles was obtained. Every status
// carries a usable (possibly empty) list; only the origin differs.
type FetchStatus int

const (
	// StatusOK means the upstream (or a fresh cache entry) returned articles.
	StatusOK FetchStatus = iota
	// StatusEmpty means the upstream answered but had nothing to offer.
	StatusEmpty
	// StatusStale means a refresh failed and an expired cache entry was used.
	StatusStale
	// StatusFailed means the upstream failed and there was nothing to fall
	// back on.
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusStale:
		return "stale"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchResult is the outcome of one query against an upstream. Articles is
// never nil. Err is set for StatusStale and StatusFailed.
type FetchResult struct {
	Articles []Article
	Status   FetchStatus
	Err      error
}

// Failed reports whether the upstream could not be reached or parsed.
func (r FetchResult) Failed() bool {
	return r.Status == StatusFailed || r.Status == StatusStale
}

func okResult(articles []Article) FetchResult {
	if len(articles) == 0 {
		return FetchResult{Articles: []Article{}, Status: StatusEmpty}
	}
	return FetchResult{Articles: articles, Status: StatusOK}
}

func staleResult(articles []Article, err error) FetchResult {
	if articles == nil {
		articles = []Article{}
	}
	return FetchResult{Articles: articles, Status: StatusStale, Err: err}
}

func failedResult(err error) FetchResult {
	return FetchResult{Articles: []Article{}, Status: StatusFailed, Err: err}
}
