package js

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"open tab", JS.OpenTab("https://github.com"), `livesite.JS.openTab("https://github.com")`},
		{"scroll smooth", JS.ScrollIntoView("pricing"), `livesite.JS.scrollIntoView("pricing",{"behavior":"smooth"})`},
		{"scroll instant", JS.ScrollIntoView("pricing", Instant()), `livesite.JS.scrollIntoView("pricing",{"behavior":"instant"})`},
		{"navigate", JS.Navigate("/other#plans"), `livesite.JS.navigate("/other#plans")`},
		{"navigate replace", JS.Navigate("/", Replace()), `livesite.JS.navigate("/",{"replace":true})`},
		{"redirect", JS.Redirect("/thanks"), `livesite.JS.redirect("/thanks")`},
		{"redirect later", JS.Redirect("/thanks", After(2*time.Second)), `livesite.JS.redirect("/thanks",{"after":2000})`},
		{"add class", JS.AddClass("html", "dark"), `livesite.JS.addClass("html","dark")`},
		{"remove class", JS.RemoveClass("html", "dark"), `livesite.JS.removeClass("html","dark")`},
		{"toggle class", JS.ToggleClass("#pricing", "yearly"), `livesite.JS.toggleClass("#pricing","yearly")`},
		{"set attr", JS.SetAttr("#t", "aria-label", "Switch to light mode"), `livesite.JS.setAttr("#t","aria-label","Switch to light mode")`},
		{"set text", JS.SetText("#m", "ok"), `livesite.JS.setText("#m","ok")`},
		{"show", JS.Show("#m"), `livesite.JS.show("#m")`},
		{"hide later", JS.Hide("#m", After(5*time.Second)), `livesite.JS.hide("#m",{"after":5000})`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.ToJS())
		})
	}
}

func TestArgumentsAreEscaped(t *testing.T) {
	cmd := JS.Navigate(`/x");alert(1);("`)
	assert.Equal(t, `livesite.JS.navigate("/x\");alert(1);(\"")`, cmd.ToJS())

	cmd = JS.SetText("#m", "</script>")
	assert.Equal(t, `livesite.JS.setText("#m","\u003c/script\u003e")`, cmd.ToJS())
}

func TestPipe(t *testing.T) {
	cmd := JS.Pipe(JS.AddClass("html", "dark"), JS.SetText("#t", "Switch to light mode"))
	assert.Equal(t, `livesite.JS.addClass("html","dark");livesite.JS.setText("#t","Switch to light mode")`, cmd.ToJS())

	assert.Equal(t, "", Commands{}.String())
}
