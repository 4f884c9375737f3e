package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name    string
		href    string
		current string
		want    Action
	}{
		{"external", "example.com", "/", Action{Effect: EffectOpenTab, Value: "https://example.com"}},
		{"same page anchor", "#pricing", "/", Action{Effect: EffectScroll, Value: "pricing", Strict: true}},
		{"anchor on current path", "/pricing#plans", "/pricing", Action{Effect: EffectScroll, Value: "plans"}},
		{"anchor after query only", "?x#plans", "/pricing", Action{Effect: EffectPush, Value: "?x#plans"}},
		{"anchor on other path", "/other#plans", "/pricing", Action{Effect: EffectPush, Value: "/other#plans"}},
		{"path match is exact", "/pricing/#plans", "/pricing", Action{Effect: EffectPush, Value: "/pricing/#plans"}},
		{"internal path", "pricing", "/", Action{Effect: EffectPush, Value: "pricing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, _ := Classify(tt.href)
			assert.Equal(t, tt.want, Plan(target, tt.current))
		})
	}
}

func TestPlanEmptyPathIsSamePage(t *testing.T) {
	// "#x" classifies as a same-page anchor, so build the target directly.
	target := Target{Kind: CrossPageAnchor, Href: "#plans", Fragment: "plans"}
	assert.Equal(t, Action{Effect: EffectScroll, Value: "plans"}, Plan(target, "/anything"))
}

func TestPlanZeroTarget(t *testing.T) {
	assert.Equal(t, EffectNone, Plan(Target{}, "/").Effect)
}
