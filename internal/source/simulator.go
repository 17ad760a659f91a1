package source

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	DefaultInterval = 2500 * time.Millisecond
	ChatLogCapacity = 12
)

// Corpus is the fixed set of sample chat messages, benign and adversarial.
var Corpus = []string{
	"Hello everyone, how is it going today?",
	"This stream is absolutely amazing!",
	"I will kill you all, watch your back.",
	"Wow, what a nice play there, gg!",
	"You are such a useless idiot.",
	"Great job, obviously sarcasm here.",
	"Anyone want to queue up for a game?",
	"Shut up you worthless piece of trash.",
	"shut the fuck up and get lost.",
	"Yeah right, you are totally legit lol.",
	"Just destroying the enemy team rn.",
	"Nice weather today, loving the sun!",
	"You are a complete waste of a person.",
	"I hate people like you, you're pathetic.",
	"This is so great, keep up the good work!",
	"You are nothing but a brainless moron.",
	"Let's work together and build something.",
	"Go die in a hole you disgusting freak.",
	"Have a wonderful and peaceful day everyone!",
	"You will pay for this, I will destroy you.",
}

// UserNames are the synthetic chat authors.
var UserNames = []string{
	"Alex_G", "ProGamer99", "ShadowX", "MoonWalker", "CryptoFan",
	"NightOwl", "StreamerPro", "QuietStorm", "BlueHorizon", "RedFox",
}

// ChatMessage is one simulated chat line.
type ChatMessage struct {
	ID   int
	User string
	Text string
}

// Simulator emits a random chat message on a fixed cadence. Start, Stop, C
// and Next belong to one owning goroutine; Log may be read from anywhere.
type Simulator struct {
	interval time.Duration
	rng      *rand.Rand
	ticker   *time.Ticker

	mu     sync.Mutex
	log    []ChatMessage
	nextID int
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithInterval sets the emission cadence.
func WithInterval(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithRand sets the random source used to draw messages and users.
func WithRand(r *rand.Rand) SimulatorOption {
	return func(s *Simulator) {
		s.rng = r
	}
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		interval: DefaultInterval,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins ticking. Starting a running simulator is a no-op.
func (s *Simulator) Start() {
	if s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.interval)
}

// Stop halts the ticker; no tick is delivered on C afterwards.
func (s *Simulator) Stop() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.ticker = nil
}

// Running reports whether the ticker is active.
func (s *Simulator) Running() bool { return s.ticker != nil }

// C returns the tick channel, or nil while stopped.
func (s *Simulator) C() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C
}

// Next draws one message, appends it to the chat log and returns it.
func (s *Simulator) Next() ChatMessage {
	text := Corpus[s.rng.IntN(len(Corpus))]
	user := UserNames[s.rng.IntN(len(UserNames))]

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	msg := ChatMessage{ID: s.nextID, User: user, Text: text}
	s.log = append(s.log, msg)
	if len(s.log) > ChatLogCapacity {
		s.log = append(s.log[:0:0], s.log[len(s.log)-ChatLogCapacity:]...)
	}
	return msg
}

// Log returns the most recent messages, oldest first.
func (s *Simulator) Log() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.log))
	copy(out, s.log)
	return out
}
