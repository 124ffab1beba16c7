package resolver

import (
	"context"
	"math/rand"
	"time"

	"github.com/agrichat/agrichat/internal/app/topics"
	"github.com/agrichat/agrichat/internal/domain"
	"github.com/agrichat/agrichat/internal/observability"
)

// Fallbacks is the fixed pool of generic advisory replies used when no
// topic rule matches and the provider cannot be reached.
var Fallbacks = []string{
	"For better crop yield, consider rotating your crops seasonally. This helps prevent soil nutrient depletion.",
	"Organic fertilizers like compost can improve soil health significantly. They add nutrients and improve soil structure.",
	"Proper irrigation scheduling is crucial for water conservation. Drip irrigation can save up to 50% water compared to flood irrigation.",
	"Integrated Pest Management (IPM) combines biological, cultural, and chemical methods for effective pest control.",
	"Soil testing every season helps determine nutrient requirements accurately. This prevents over-fertilization.",
	"Cover crops like legumes can fix nitrogen in the soil naturally, reducing fertilizer needs.",
	"Proper spacing between plants ensures good air circulation and reduces disease spread.",
	"Mulching helps retain soil moisture and suppress weeds naturally.",
	"Crop diversity in your fields can help break pest and disease cycles naturally.",
	"Monitoring weather patterns helps plan farming activities and protect crops from extreme conditions.",
}

// Resolver turns a user message into reply text: topic match first, then
// the generative provider, then a local fallback. It never returns an
// error and never touches the stores.
type Resolver struct {
	matcher *topics.Matcher
	gen     domain.Generator // nil means provider unavailable
	timeout time.Duration
	pick    func(n int) int
}

type Option func(*Resolver)

// WithPicker replaces the random fallback selector, e.g. for tests.
func WithPicker(pick func(n int) int) Option {
	return func(r *Resolver) { r.pick = pick }
}

// New builds a Resolver. gen may be nil when no provider is configured.
func New(matcher *topics.Matcher, gen domain.Generator, timeout time.Duration, opts ...Option) *Resolver {
	r := &Resolver{
		matcher: matcher,
		gen:     gen,
		timeout: timeout,
		pick:    rand.Intn,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve applies the resolution order: first matching topic rule wins
// and the provider is never consulted; otherwise the provider is called
// with a bounded timeout; any provider failure degrades to a fallback.
func (r *Resolver) Resolve(ctx context.Context, message string) string {
	if resp, ok := r.matcher.Match(message); ok {
		return resp
	}

	if r.gen != nil {
		genCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		reply, err := r.gen.GenerateReply(genCtx, message)
		if err == nil {
			return reply
		}
		observability.LoggerFromContext(ctx).Warn("provider call failed, using fallback",
			"error", err)
	}

	return Fallbacks[r.pick(len(Fallbacks))]
}
