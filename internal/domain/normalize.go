package domain

import "strings"

// NormalizeDialect folds a dialect name into a configuration-key fragment:
// upper-cased, with every non-alphanumeric run collapsed to a single underscore.
// "Thlinkit Skutkwan" -> "THLINKIT_SKUTKWAN".
func NormalizeDialect(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	prevSep := false
	for _, r := range strings.ToUpper(name) {
		alnum := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			prevSep = false
			continue
		}
		if !prevSep && b.Len() > 0 {
			b.WriteByte('_')
			prevSep = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// BindingKey is the durable-store key holding the fine-tuned model id for a
// dialect.
func BindingKey(dialect string) string {
	return "FINE_TUNED_MODEL_" + NormalizeDialect(dialect)
}
