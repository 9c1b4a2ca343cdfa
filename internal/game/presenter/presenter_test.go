package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogPresenterWritesDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	NewLog(zap.New(core)).Present(Notification{Kind: KindDamage, Target: "macguffin", Amount: 4})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "present", entries[0].Message)
		assert.Equal(t, "damage", entries[0].ContextMap()["kind"])
		assert.Equal(t, int64(4), entries[0].ContextMap()["amount"])
	}
}

func TestMultiFansOut(t *testing.T) {
	var got []Kind
	rec := Func(func(n Notification) { got = append(got, n.Kind) })

	Multi{rec, Nop{}, rec}.Present(Notification{Kind: KindHeal})
	assert.Equal(t, []Kind{KindHeal, KindHeal}, got)
}

func TestNewLogNilLogger(t *testing.T) {
	assert.NotPanics(t, func() { NewLog(nil).Present(Notification{Kind: KindMessage}) })
}
