package effects

import (
	"testing"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestListUnmarshalPreservesOrder(t *testing.T) {
	src := `
- type: inflictRandomDebuff
  value: 2
- type: damagePerDebuff
  base: 0
  perDebuff: 2
- type: luck
  value: 1
- type: inflict
  keyword: burn
  value: 5
- type: somethingNew
  value: 3
`
	var list List
	require.NoError(t, yaml.Unmarshal([]byte(src), &list))
	require.Len(t, list, 5)

	assert.Equal(t, InflictRandomDebuff{Value: 2}, list[0])
	assert.Equal(t, DamagePerDebuff{Base: 0, PerDebuff: 2}, list[1])
	assert.Equal(t, Gain{Keyword: counters.KeywordLuck, Value: 1}, list[2])
	assert.Equal(t, Inflict{Keyword: counters.KeywordBurn, Value: 5}, list[3])
	assert.Equal(t, Unknown{Type: "somethingNew"}, list[4])
	assert.Equal(t, Kind("somethingNew"), list[4].Kind())
}

func TestListUnmarshalErrors(t *testing.T) {
	var list List
	assert.Error(t, yaml.Unmarshal([]byte(`type: damage`), &list), "mapping is not a list")
	assert.Error(t, yaml.Unmarshal([]byte(`- value: 3`), &list), "entry without type")
}

func TestDecodeAliasesAndDefaults(t *testing.T) {
	assert.Equal(t, DamagePerDebuff{Base: 1, PerDebuff: 3},
		Decode(Spec{Type: "damagePerDebuffType", Base: 1, PerDebuff: 3}))
	assert.Equal(t, BuffOtherAttacks{Value: 4}, Decode(Spec{Type: "buffOtherAttacks", Value: 4}))
	assert.Equal(t, DistractPerDebuffType{PerType: 1}, Decode(Spec{Type: "distractPerDebuffType"}))
	assert.Equal(t, AllInLuck{Multiplier: 1}, Decode(Spec{Type: "allInLuck"}))
	assert.Equal(t, AllInLuck{Multiplier: 3}, Decode(Spec{Type: "allInLuck", Multiplier: 3}))
}

func TestEncodeRoundTripsCardShapes(t *testing.T) {
	list := List{
		Damage{Value: 3},
		Taunt{Value: 1},
		ConvertOvation{To: counters.KeywordInspire},
		DamageFromOvation{Base: 5, Multiplier: 2},
		ReduceCostType{CardType: "attack", Amount: 1},
		Gain{Keyword: counters.KeywordFocus, Value: 2},
		CleanseBurnPoison{},
	}
	out, err := yaml.Marshal(list)
	require.NoError(t, err)

	var back List
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, list, back)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		effect  Effect
		wantErr bool
	}{
		{"damage", Damage{Value: 3}, false},
		{"negative damage", Damage{Value: -1}, true},
		{"inflict known", Inflict{Keyword: counters.KeywordFear, Value: 2}, false},
		{"inflict curse on enemy", Inflict{Keyword: counters.KeywordCurse, Value: 1}, true},
		{"self inflict burn", SelfInflict{Keyword: counters.KeywordBurn, Value: 2}, false},
		{"self inflict weak", SelfInflict{Keyword: counters.KeywordWeak, Value: 2}, true},
		{"from ovation taunt", FromOvation{Keyword: counters.KeywordTaunt}, false},
		{"from ovation block", FromOvation{Keyword: counters.KeywordBlock}, true},
		{"convert to luck", ConvertOvation{To: counters.KeywordLuck}, false},
		{"reduce unknown type", ReduceCostType{CardType: "spell", Amount: 1}, true},
		{"set ovation too high", SetOvation{Value: 9}, true},
		{"lose ovation", Ovation{Value: -2}, false},
		{"unknown", Unknown{Type: "later"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.effect)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
