package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelforge/internal/knowledge"
	"pixelforge/internal/kv"
	"pixelforge/internal/llm"
	"pixelforge/internal/training"
)

type spyGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	creds   []string
	out     llm.Outcome
}

func (s *spyGenerator) Generate(_ context.Context, credential, prompt string) llm.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.creds = append(s.creds, credential)
	return s.out
}

type failingStore struct{ kv.Store }

func (failingStore) Set(string, string) error { return errors.New("quota exceeded") }

func newResolver(t *testing.T, store kv.Store, gen llm.Generator) *Resolver {
	t.Helper()
	return New(store, gen, WithPicker(func(int) int { return 0 }))
}

func TestResolve_NotConfigured(t *testing.T) {
	spy := &spyGenerator{out: llm.OK("remote")}
	r := newResolver(t, kv.NewMemory(), spy)

	for _, text := range []string{"Hi", "How much does it cost?", ""} {
		res := r.ResolveDetailed(context.Background(), text)
		assert.Equal(t, StrategyNotConfigured, res.Strategy)
		assert.Equal(t, knowledge.Default().Replies.NotConfigured, res.Reply.Text)
		assert.Zero(t, res.Reply.Confidence)
		assert.False(t, res.Attempted)
	}
	assert.Zero(t, spy.calls)
}

func TestConfigure(t *testing.T) {
	store := kv.NewMemory()
	r := newResolver(t, store, nil)

	assert.False(t, r.IsConfigured())
	assert.False(t, r.Configure(""))
	require.True(t, r.Configure("hf_123"))
	assert.True(t, r.IsConfigured())

	v, ok, err := store.Get(kv.KeyCredential)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hf_123", v)
}

func TestConfigure_StorageFailure(t *testing.T) {
	r := newResolver(t, failingStore{kv.NewMemory()}, nil)
	assert.False(t, r.Configure("hf_123"))
	assert.False(t, r.IsConfigured())
}

func TestIsConfigured_LoadsPersistedCredential(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(kv.KeyCredential, "demo"))

	r := newResolver(t, store, nil)
	assert.True(t, r.IsConfigured())
}

func TestWithCredentialStore(t *testing.T) {
	shared := kv.NewMemory()
	secrets := kv.NewMemory()
	r := New(shared, nil, WithCredentialStore(secrets))
	require.True(t, r.Configure("sk-live"))

	_, ok, _ := shared.Get(kv.KeyCredential)
	assert.False(t, ok)
	v, ok, _ := secrets.Get(kv.KeyCredential)
	assert.True(t, ok)
	assert.Equal(t, "sk-live", v)
}

func TestExamples_AddClearList(t *testing.T) {
	r := newResolver(t, kv.NewMemory(), nil)
	require.NoError(t, r.AddExample(training.Example{Input: "a", ExpectedOutput: "b"}))
	require.Len(t, r.ListExamples(), 1)

	require.NoError(t, r.ClearExamples())
	assert.Empty(t, r.ListExamples())
}

func TestExamples_SurviveRestart(t *testing.T) {
	store := kv.NewMemory()
	e := training.Example{Input: "do you do seo", ExpectedOutput: "Yes, SEO is included.", Category: "seo"}

	r := newResolver(t, store, nil)
	require.NoError(t, r.AddExample(e))

	restarted := newResolver(t, store, nil)
	assert.Equal(t, []training.Example{e}, restarted.ListExamples())
}

func TestExamples_ListReturnsCopy(t *testing.T) {
	r := newResolver(t, kv.NewMemory(), nil)
	require.NoError(t, r.AddExample(training.Example{Input: "a", ExpectedOutput: "b"}))

	got := r.ListExamples()
	got[0].ExpectedOutput = "mutated"
	assert.Equal(t, "b", r.ListExamples()[0].ExpectedOutput)
}

func TestAddExample_PersistFailureKeepsMemory(t *testing.T) {
	r := newResolver(t, failingStore{kv.NewMemory()}, nil)
	err := r.AddExample(training.Example{Input: "a", ExpectedOutput: "b"})
	assert.Error(t, err)
	assert.Len(t, r.ListExamples(), 1)
}

func sharedFileResolvers(t *testing.T) (server, cli *Resolver) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kv.json")
	serverStore, err := kv.NewFile(path)
	require.NoError(t, err)
	cliStore, err := kv.NewFile(path)
	require.NoError(t, err)
	return newResolver(t, serverStore, nil), newResolver(t, cliStore, nil)
}

func TestExamples_SharedStoreSeesOtherWriter(t *testing.T) {
	server, cli := sharedFileResolvers(t)
	require.True(t, server.Configure("demo"))

	require.NoError(t, server.AddExample(training.Example{Input: "alpha beta", ExpectedOutput: "A"}))
	require.NoError(t, cli.AddExample(training.Example{Input: "gamma delta", ExpectedOutput: "B"}))

	assert.Equal(t, "B", server.Resolve(context.Background(), "gamma delta").Text)

	require.NoError(t, server.AddExample(training.Example{Input: "epsilon", ExpectedOutput: "C"}))
	got := cli.ListExamples()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].ExpectedOutput, got[1].ExpectedOutput, got[2].ExpectedOutput})

	require.NoError(t, cli.ClearExamples())
	assert.Empty(t, server.ListExamples())
}

func TestConfigure_SharedStoreSeesOtherWriter(t *testing.T) {
	server, cli := sharedFileResolvers(t)
	assert.False(t, server.IsConfigured())

	require.True(t, cli.Configure("demo"))
	assert.True(t, server.IsConfigured())

	spy := &spyGenerator{out: llm.OK("remote reply")}
	server.gen = spy
	require.True(t, cli.Configure("hf_live"))
	assert.Equal(t, "remote reply", server.Resolve(context.Background(), "hello").Text)
	assert.Equal(t, []string{"hf_live"}, spy.creds)
}

func TestResolve_DemoNeverCallsRemote(t *testing.T) {
	for _, sentinel := range []string{"demo", "test"} {
		t.Run(sentinel, func(t *testing.T) {
			spy := &spyGenerator{out: llm.OK("remote")}
			r := newResolver(t, kv.NewMemory(), spy)
			require.True(t, r.Configure(sentinel))

			first := r.ResolveDetailed(context.Background(), "tell me something")
			second := r.ResolveDetailed(context.Background(), "tell me something")

			assert.Zero(t, spy.calls)
			assert.False(t, first.Attempted)
			assert.Equal(t, StrategyFallback, first.Strategy)
			assert.Equal(t, first.Reply, second.Reply, "fallback is deterministic with a pinned picker")
		})
	}
}

func TestResolve_DemoPricing(t *testing.T) {
	r := newResolver(t, kv.NewMemory(), nil)
	require.True(t, r.Configure("demo"))

	reply := r.Resolve(context.Background(), "How much does it cost?")
	assert.Equal(t, knowledge.Default().Replies.Pricing, reply.Text)
	for _, price := range []string{"₹299", "₹999", "₹1899", "₹2299"} {
		assert.Contains(t, reply.Text, price)
	}
	assert.Equal(t, 0.9, reply.Confidence)
	require.NotNil(t, reply.Metadata)
	assert.Equal(t, "pricing_inquiry", reply.Metadata.DetectedIntent)
}

func TestResolve_DemoProjectEstimate(t *testing.T) {
	r := newResolver(t, kv.NewMemory(), nil)
	require.True(t, r.Configure("demo"))

	reply := r.Resolve(context.Background(), "I need a complex e-commerce dashboard")
	require.NotNil(t, reply.Metadata)
	assert.Equal(t, "e-commerce site", reply.Metadata.ProjectType)
	assert.Equal(t, "advanced", reply.Metadata.Complexity)
	assert.Equal(t, "₹1899", reply.Metadata.EstimatedPrice)
	assert.Equal(t, 0.8, reply.Confidence)
	assert.Contains(t, reply.Text, "e-commerce site")
	assert.Contains(t, reply.Text, "₹1899")
}

func TestResolve_TrainingExampleMatch(t *testing.T) {
	r := newResolver(t, kv.NewMemory(), nil)
	require.True(t, r.Configure("demo"))
	require.NoError(t, r.AddExample(training.Example{Input: "how much for a basic website", ExpectedOutput: "X"}))

	reply := r.Resolve(context.Background(), "how much does a basic site cost")
	assert.Equal(t, "X", reply.Text)
	assert.Equal(t, 0.8, reply.Confidence)
	assert.Equal(t, "matched_example", reply.Metadata.DetectedIntent)
}

func TestResolve_TrainingExampleCategory(t *testing.T) {
	r := newResolver(t, kv.NewMemory(), nil)
	require.True(t, r.Configure("demo"))
	require.NoError(t, r.AddExample(training.Example{Input: "wordpress migration", ExpectedOutput: "We migrate WordPress sites.", Category: "migration"}))

	reply := r.Resolve(context.Background(), "can you handle a wordpress migration")
	assert.Equal(t, "We migrate WordPress sites.", reply.Text)
	assert.Equal(t, "migration", reply.Metadata.DetectedIntent)
}

func TestResolve_FallbackPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		rule   string
		intent string
		conf   float64
	}{
		{name: "code before everything", text: "price of a react component", rule: "code", intent: "code_assistance", conf: 0.8},
		{name: "debugging before pricing", text: "fix my checkout price bug", rule: "debugging", intent: "debugging", conf: 0.8},
		{name: "pricing before location", text: "what is your price and location", rule: "pricing", intent: "pricing_inquiry", conf: 0.9},
		{name: "contact", text: "can I email you", rule: "contact", intent: "contact_inquiry", conf: 0.9},
		{name: "timeline", text: "how long does it take", rule: "timeline", intent: "timeline_inquiry", conf: 0.9},
		{name: "location", text: "where are you based", rule: "location", intent: "location_inquiry", conf: 0.9},
		{name: "short project text is generic", text: "i want one", rule: "generic", intent: "general_coding", conf: 0.7},
		{name: "generic", text: "hello there", rule: "generic", intent: "general_coding", conf: 0.7},
	}
	r := newResolver(t, kv.NewMemory(), nil)
	require.True(t, r.Configure("demo"))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.ResolveDetailed(context.Background(), tt.text)
			assert.Equal(t, tt.rule, res.Rule)
			assert.Equal(t, tt.intent, res.Reply.Metadata.DetectedIntent)
			assert.Equal(t, tt.conf, res.Reply.Confidence)
		})
	}
}

func TestResolve_ProjectClassification(t *testing.T) {
	tests := []struct {
		text       string
		project    string
		complexity string
		price      string
	}{
		{"we want to build a simple website", "website", "basic", "₹299"},
		{"i need a mobile app with a database", "web application", "intermediate", "₹999"},
		{"develop an online shop app with dynamic pages", "e-commerce site", "intermediate", "₹999"},
		{"planning a project: advanced app", "web application", "advanced", "₹1899"},
	}
	r := newResolver(t, kv.NewMemory(), nil)
	require.True(t, r.Configure("demo"))

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			reply := r.Resolve(context.Background(), tt.text)
			require.NotNil(t, reply.Metadata)
			assert.Equal(t, "project_inquiry", reply.Metadata.DetectedIntent)
			assert.Equal(t, tt.project, reply.Metadata.ProjectType)
			assert.Equal(t, tt.complexity, reply.Metadata.Complexity)
			assert.Equal(t, tt.price, reply.Metadata.EstimatedPrice)
		})
	}
}

func TestResolve_GenericUsesPicker(t *testing.T) {
	greetings := knowledge.Default().Replies.Greetings
	for i := range greetings {
		r := New(kv.NewMemory(), nil, WithPicker(func(n int) int {
			assert.Equal(t, len(greetings), n)
			return i
		}))
		require.True(t, r.Configure("demo"))
		assert.Equal(t, greetings[i], r.Resolve(context.Background(), "hello").Text)
	}

	// out-of-range picks fall back to the first template
	r := New(kv.NewMemory(), nil, WithPicker(func(int) int { return 99 }))
	require.True(t, r.Configure("demo"))
	assert.Equal(t, greetings[0], r.Resolve(context.Background(), "hello").Text)
}

func TestResolve_RemoteSuccess(t *testing.T) {
	spy := &spyGenerator{out: llm.OK("For an advanced e-commerce store we quote ₹ 2,299 to start.")}
	r := newResolver(t, kv.NewMemory(), spy)
	require.True(t, r.Configure("hf_live"))
	require.NoError(t, r.AddExample(training.Example{Input: "do you host", ExpectedOutput: "Hosting is free for a year."}))

	res := r.ResolveDetailed(context.Background(), "quote me a store")
	assert.Equal(t, StrategyRemote, res.Strategy)
	assert.True(t, res.Attempted)
	assert.Equal(t, 0.95, res.Reply.Confidence)
	require.NotNil(t, res.Reply.Metadata)
	assert.Equal(t, "e-commerce site", res.Reply.Metadata.ProjectType)
	assert.Equal(t, "advanced", res.Reply.Metadata.Complexity)
	assert.Equal(t, "₹2,299", res.Reply.Metadata.EstimatedPrice)

	require.Equal(t, 1, spy.calls)
	assert.Equal(t, "hf_live", spy.creds[0])
	prompt := spy.prompts[0]
	assert.Contains(t, prompt, "PixelForge")
	assert.Contains(t, prompt, "User: do you host\nAssistant: Hosting is free for a year.")
	assert.True(t, strings.HasSuffix(prompt, "User: quote me a store\nAssistant:"))
}

func TestResolve_RemoteEmptyTextUsesPlaceholder(t *testing.T) {
	spy := &spyGenerator{out: llm.OK("")}
	r := newResolver(t, kv.NewMemory(), spy)
	require.True(t, r.Configure("hf_live"))

	res := r.ResolveDetailed(context.Background(), "hello")
	assert.Equal(t, StrategyRemote, res.Strategy)
	assert.Equal(t, knowledge.Default().Replies.Placeholder, res.Reply.Text)
	assert.Equal(t, 0.95, res.Reply.Confidence)
	assert.Nil(t, res.Reply.Metadata)
}

func TestResolve_RemoteFailuresDegrade(t *testing.T) {
	outcomes := []llm.Outcome{
		llm.AuthError(401, errors.New("invalid token")),
		llm.TransportError(503, errors.New("loading")),
		llm.TransportError(0, errors.New("connection refused")),
		llm.Malformed(errors.New("not json")),
	}
	for _, out := range outcomes {
		t.Run(out.Kind.String(), func(t *testing.T) {
			spy := &spyGenerator{out: out}
			r := newResolver(t, kv.NewMemory(), spy)
			require.True(t, r.Configure("hf_live"))

			res := r.ResolveDetailed(context.Background(), "How much does it cost?")
			assert.Equal(t, 1, spy.calls)
			assert.True(t, res.Attempted, "a call was attempted")
			assert.Equal(t, out.Kind, res.Outcome.Kind)
			assert.Equal(t, StrategyFallback, res.Strategy)
			assert.Equal(t, "pricing", res.Rule)
			assert.Equal(t, 0.9, res.Reply.Confidence)
		})
	}
}

func TestResolve_NilGeneratorUsesFallback(t *testing.T) {
	r := newResolver(t, kv.NewMemory(), nil)
	require.True(t, r.Configure("hf_live"))

	res := r.ResolveDetailed(context.Background(), "where are you")
	assert.False(t, res.Attempted)
	assert.Equal(t, "location", res.Rule)
}

func TestResolve_ConfidenceAlwaysInRange(t *testing.T) {
	inputs := []string{"", "Hi", "code", "bug", "price", "call", "deadline", "address",
		"I want to build a dashboard", "random words here", "ÜÖÄ ₹₹₹ 🚀"}
	for _, cred := range []string{"", "demo", "hf_live"} {
		spy := &spyGenerator{out: llm.TransportError(500, errors.New("boom"))}
		r := newResolver(t, kv.NewMemory(), spy)
		if cred != "" {
			require.True(t, r.Configure(cred))
		}
		for _, in := range inputs {
			reply := r.Resolve(context.Background(), in)
			assert.GreaterOrEqual(t, reply.Confidence, 0.0)
			assert.LessOrEqual(t, reply.Confidence, 1.0)
			assert.NotEmpty(t, reply.Text)
		}
	}
}

func TestResolve_ConcurrentUse(t *testing.T) {
	r := New(kv.NewMemory(), &spyGenerator{out: llm.OK("ok")})
	require.True(t, r.Configure("hf_live"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Resolve(context.Background(), "hello")
		}()
		go func() {
			defer wg.Done()
			_ = r.AddExample(training.Example{Input: "x", ExpectedOutput: "y"})
		}()
	}
	wg.Wait()
	assert.Len(t, r.ListExamples(), 20)
}
