package mongopager

const (
	// NoLimit means "return every matching record".
	NoLimit int64 = 0
	// DefaultPage is the first page. Pages are 1-based.
	DefaultPage int64 = 1
)

// IsNormalizedLimitMax normalizes a requested limit against an upper bound
// and reports whether the limit was left unchanged.
//
// Negative limits become NoLimit. A positive maxLimit caps both large and
// unlimited requests; a maxLimit of NoLimit imposes no cap.
func IsNormalizedLimitMax(limit int64, maxLimit int64) (int64, bool) {
	if maxLimit > NoLimit && (limit <= NoLimit || limit > maxLimit) {
		return maxLimit, false
	} else if limit < NoLimit {
		return NoLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int64, maxLimit int64) int64 {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int64) int64 {
	return NormalizeLimitMax(limit, NoLimit)
}

// NormalizePage maps pages below 1 to DefaultPage.
func NormalizePage(page int64) int64 {
	if page < DefaultPage {
		return DefaultPage
	}

	return page
}
