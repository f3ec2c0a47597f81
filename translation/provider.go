//go:generate go run go.uber.org/mock/mockgen -source=provider.go -destination=../mocks/mock_translator.go -package=mocks
package translation

import "context"

// ITranslator is the external translation provider. It is fallible and
// latency-bearing; callers bound every invocation with a timeout and fall
// back to the original text on any error.
type ITranslator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
