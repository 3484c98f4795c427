// Package assistant resolves chat input to a reply. It tries, in order, a remote
// text-generation model, the curated training examples and a fixed set of
// keyword-triggered answers, and never fails the conversation.
package assistant

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"pixelforge/internal/knowledge"
	"pixelforge/internal/kv"
	"pixelforge/internal/llm"
	"pixelforge/internal/training"
)

// Resolution is a reply plus how it was produced.
type Resolution struct {
	Reply     Reply
	Strategy  Strategy
	Rule      string
	Attempted bool
	Outcome   llm.Outcome
	Latency   time.Duration
}

// Resolver reads the credential and the training set from its stores on every
// call, so writes made by another process sharing the store are seen. It is safe
// for concurrent use; the lock is never held across a remote call.
type Resolver struct {
	creds    kv.Store
	examples *training.Repository
	gen      llm.Generator
	catalog  *knowledge.Catalog
	logger   *zap.Logger
	pick     func(n int) int

	mu sync.Mutex
	// last values read or written, used while the store is unreadable
	credential string
	set        []training.Example
	// set holds changes the store rejected
	unsaved bool
}

type Option func(*Resolver)

// WithCredentialStore keeps the credential in a different store than the examples.
func WithCredentialStore(s kv.Store) Option {
	return func(r *Resolver) { r.creds = s }
}

func WithCatalog(c *knowledge.Catalog) Option {
	return func(r *Resolver) { r.catalog = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithPicker replaces the random index source used for generic replies.
func WithPicker(pick func(n int) int) Option {
	return func(r *Resolver) { r.pick = pick }
}

// New builds a resolver over store. A nil gen disables the remote branch.
func New(store kv.Store, gen llm.Generator, opts ...Option) *Resolver {
	r := &Resolver{
		creds:    store,
		examples: training.NewRepository(store),
		gen:      gen,
		catalog:  knowledge.Default(),
		logger:   zap.NewNop(),
		pick:     rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configure stores and persists the credential. It reports false when the
// credential is empty or cannot be persisted.
func (r *Resolver) Configure(credential string) bool {
	if credential == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.creds.Set(kv.KeyCredential, credential); err != nil {
		r.logger.Error("failed to persist credential", zap.Error(err))
		return false
	}
	r.credential = credential
	r.logger.Info("assistant configured", zap.Bool("sentinel", isSentinel(credential)))
	return true
}

// IsConfigured reports whether a credential is persisted.
func (r *Resolver) IsConfigured() bool {
	_, ok := r.currentCredential()
	return ok
}

func (r *Resolver) currentCredential() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok, err := r.creds.Get(kv.KeyCredential)
	switch {
	case err != nil:
		r.logger.Warn("failed to read persisted credential, using last known", zap.Error(err))
	case ok:
		r.credential = v
	default:
		r.credential = ""
	}
	return r.credential, r.credential != ""
}

// AddExample appends to the persisted training set. The in-memory set keeps the
// example even when persisting fails.
func (r *Resolver) AddExample(ex training.Example) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshLocked()
	r.set = append(r.set, ex)
	if err := r.examples.Save(r.set); err != nil {
		r.unsaved = true
		r.logger.Error("failed to persist training examples", zap.Error(err))
		return err
	}
	r.unsaved = false
	r.logger.Info("training example added",
		zap.Int("count", len(r.set)),
		zap.String("category", ex.Category))
	return nil
}

// ListExamples returns a copy of the persisted training set.
func (r *Resolver) ListExamples() []training.Example {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshLocked()
	out := make([]training.Example, len(r.set))
	copy(out, r.set)
	return out
}

// ClearExamples empties the set and removes the persisted entry.
func (r *Resolver) ClearExamples() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = nil
	if err := r.examples.Clear(); err != nil {
		r.unsaved = true
		r.logger.Error("failed to clear training examples", zap.Error(err))
		return err
	}
	r.unsaved = false
	r.logger.Info("training examples cleared")
	return nil
}

// refreshLocked replaces the in-memory set with the persisted one unless memory
// holds changes the store rejected.
func (r *Resolver) refreshLocked() {
	if r.unsaved {
		return
	}
	set, err := r.examples.Load()
	if err != nil {
		r.logger.Warn("failed to load training examples, using last known", zap.Error(err))
		return
	}
	r.set = set
}

// Resolve answers text. It always returns a reply.
func (r *Resolver) Resolve(ctx context.Context, text string) Reply {
	return r.ResolveDetailed(ctx, text).Reply
}

// ResolveDetailed answers text and reports which branch answered and whether a
// remote call was attempted.
func (r *Resolver) ResolveDetailed(ctx context.Context, text string) Resolution {
	credential, ok := r.currentCredential()
	if !ok {
		r.logger.Debug("assistant not configured")
		return Resolution{
			Reply:    Reply{Text: r.catalog.Replies.NotConfigured, Confidence: confidenceNone},
			Strategy: StrategyNotConfigured,
		}
	}

	examples := r.ListExamples()
	res := Resolution{Strategy: StrategyFallback}

	if !isSentinel(credential) && r.gen != nil {
		res.Attempted = true
		start := time.Now()
		out := r.gen.Generate(ctx, credential, BuildPrompt(r.catalog, examples, text))
		res.Outcome = out
		res.Latency = time.Since(start)

		if out.OK() {
			generated := strings.TrimSpace(out.Text)
			if generated == "" {
				generated = r.catalog.Replies.Placeholder
			}
			res.Strategy = StrategyRemote
			res.Reply = Reply{Text: generated, Confidence: confidenceRemote, Metadata: extractMetadata(generated)}
			r.logger.Info("remote reply",
				zap.Duration("latency", res.Latency),
				zap.Bool("placeholder", out.Text == "" || strings.TrimSpace(out.Text) == ""))
			return res
		}

		r.logger.Warn("remote generation failed, using fallback",
			zap.Stringer("outcome", out.Kind),
			zap.Int("status", out.Status),
			zap.Duration("latency", res.Latency),
			zap.Error(out.Err))
	}

	res.Reply, res.Rule = r.fallback(text, examples)
	r.logger.Debug("fallback reply",
		zap.String("rule", res.Rule),
		zap.String("intent", res.Reply.Metadata.Intent()))
	return res
}

func isSentinel(credential string) bool {
	return credential == sentinelDemo || credential == sentinelTest
}
