package classify

// Option configures a Classifier.
type Option func(*Classifier)

// WithSurgeThreshold sets the minimum rank improvement treated as a surge.
// Non-positive values keep the default.
func WithSurgeThreshold(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.surgeThreshold = n
		}
	}
}
