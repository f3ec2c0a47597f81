package translation

import "github.com/abadojack/whatlanggo"

// DetectLanguage guesses the two-letter language tag of text. It returns ""
// when the detection is not reliable enough to act on, in which case the
// caller should skip translation rather than guess.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
