// Package presenter defines the one-way notification hook the engine calls
// after state changes. Implementations render, stream or log them; nothing
// is ever read back.
package presenter

import "go.uber.org/zap"

//go:generate mockgen -destination=mock/mock.go -package=presentermock github.com/curtaincall/curtaincall-server-go/internal/game/presenter Presenter

// Kind classifies a notification.
type Kind string

const (
	KindDamage     Kind = "damage"
	KindHeal       Kind = "heal"
	KindBlock      Kind = "block"
	KindKeyword    Kind = "keyword"
	KindDebuff     Kind = "debuff"
	KindKnockout   Kind = "knockout"
	KindCard       Kind = "card"
	KindIntent     Kind = "intent"
	KindEnemyPhase Kind = "enemy_phase"
	KindTurn       Kind = "turn"
	KindOutcome    Kind = "outcome"
	KindMessage    Kind = "message"
)

// Notification describes one visible change.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Target  string `json:"target,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Keyword string `json:"keyword,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Presenter receives notifications.
type Presenter interface {
	Present(n Notification)
}

// Nop discards every notification.
type Nop struct{}

// Present implements Presenter.
func (Nop) Present(Notification) {}

// Log writes notifications to a zap logger at debug level.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a logging presenter.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Present implements Presenter.
func (l *Log) Present(n Notification) {
	l.logger.Debug("present",
		zap.String("kind", string(n.Kind)),
		zap.String("target", n.Target),
		zap.Int("amount", n.Amount),
		zap.String("keyword", n.Keyword),
		zap.String("text", n.Text),
	)
}

// Func adapts a function to Presenter.
type Func func(n Notification)

// Present implements Presenter.
func (f Func) Present(n Notification) { f(n) }

// Multi fans a notification out to several presenters in order.
type Multi []Presenter

// Present implements Presenter.
func (m Multi) Present(n Notification) {
	for _, p := range m {
		p.Present(n)
	}
}
