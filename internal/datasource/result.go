package datasource

// Source tells whether a Result came from the gateway or from fallback data.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Result is the outcome of a data-access call. Data is always usable;
// Cause is set only for fallback results.
type Result[T any] struct {
	Data   T      `json:"data"`
	Source Source `json:"source"`
	Cause  error  `json:"-"`
}

// IsFallback reports whether Data is substitute data.
func (r Result[T]) IsFallback() bool { return r.Source == SourceFallback }

// CauseText returns the fallback cause as a string, or "" for live data.
func (r Result[T]) CauseText() string {
	if r.Cause == nil {
		return ""
	}
	return r.Cause.Error()
}

func live[T any](v T) Result[T] {
	return Result[T]{Data: v, Source: SourceLive}
}

func fallback[T any](v T, cause error) Result[T] {
	return Result[T]{Data: v, Source: SourceFallback, Cause: cause}
}
