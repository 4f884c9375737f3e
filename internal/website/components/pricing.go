package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/pkg/js"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
)

const (
	pricingSelector = "#pricing"
	yearlyClass     = "yearly"
)

// BillingCommands switches the pricing section between monthly and yearly
// prices. They run in the browser without a server round trip.
func BillingCommands(yearly bool) js.Commands {
	swap := js.JS.RemoveClass(pricingSelector, yearlyClass)
	if yearly {
		swap = js.JS.AddClass(pricingSelector, yearlyClass)
	}
	return js.Commands{
		swap,
		js.JS.SetAttr(`[data-billing="monthly"]`, "aria-pressed", fmt.Sprint(!yearly)),
		js.JS.SetAttr(`[data-billing="yearly"]`, "aria-pressed", fmt.Sprint(yearly)),
	}
}

// Pricing renders the plans with a monthly/yearly switch.
type Pricing struct {
	Config     website.PricingConfig
	Classifier *navigation.Classifier
}

func (p *Pricing) Name() string { return website.SectionPricing }

func (p *Pricing) Render(ctx context.Context, w io.Writer) error {
	cfg := p.Config
	var sb strings.Builder

	sb.WriteString(`<section id="pricing" class="section" aria-labelledby="pricing-title">` + "\n")
	sb.WriteString(`<div class="container">` + "\n")

	sb.WriteString(`<div class="text-center">` + "\n")
	fmt.Fprintf(&sb, `<h2 id="pricing-title">%s</h2>`+"\n", esc(cfg.Title))
	if cfg.Subtitle != "" {
		fmt.Fprintf(&sb, "<p>%s</p>\n", esc(cfg.Subtitle))
	}

	bt := cfg.BillingToggle
	sb.WriteString(`<div class="billing-toggle" role="group" aria-label="Billing period">` + "\n")
	fmt.Fprintf(&sb, `<button type="button" data-billing="monthly" aria-pressed="true" data-js="%s">%s</button>`+"\n",
		esc(BillingCommands(false).ToJS()), esc(bt.Monthly))
	fmt.Fprintf(&sb, `<button type="button" data-billing="yearly" aria-pressed="false" data-js="%s">%s`,
		esc(BillingCommands(true).ToJS()), esc(bt.Yearly))
	if bt.YearlyDiscount != "" {
		fmt.Fprintf(&sb, `<span class="discount">%s</span>`, esc(bt.YearlyDiscount))
	}
	sb.WriteString("</button>\n</div>\n</div>\n")

	sb.WriteString(`<div class="grid grid-3" style="margin-top:3rem">` + "\n")
	for _, plan := range cfg.Plans {
		writePlan(&sb, p.Classifier, plan)
	}
	sb.WriteString("</div>\n")

	if cfg.Guarantee != "" {
		fmt.Fprintf(&sb, `<p class="guarantee">%s</p>`+"\n", esc(cfg.Guarantee))
	}

	sb.WriteString("</div>\n</section>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writePlan(sb *strings.Builder, c *navigation.Classifier, plan website.Plan) {
	class := "plan"
	if plan.Popular {
		class += " popular"
	}
	fmt.Fprintf(sb, `<div class="%s">`+"\n", class)
	if plan.Popular {
		sb.WriteString(`<span class="popular-badge">Most Popular</span>` + "\n")
	}
	fmt.Fprintf(sb, "<h3>%s</h3>\n", esc(plan.Name))
	if plan.Description != "" {
		fmt.Fprintf(sb, "<p>%s</p>\n", esc(plan.Description))
	}

	fmt.Fprintf(sb, `<div class="price price-monthly">%s%d<small>/%s</small></div>`+"\n",
		esc(plan.Currency), plan.MonthlyPrice, esc(plan.Period))
	fmt.Fprintf(sb, `<div class="price price-yearly">%s%d<small>/%s</small></div>`+"\n",
		esc(plan.Currency), plan.YearlyPrice, esc(plan.Period))

	sb.WriteString("<ul>\n")
	for _, f := range plan.Features {
		fmt.Fprintf(sb, "<li>%s</li>\n", esc(f))
	}
	sb.WriteString("</ul>\n")

	btn := "btn btn-outline btn-block"
	if plan.Popular {
		btn = "btn btn-primary btn-block"
	}
	writeLink(sb, c, plan.CTAHref, btn, plan.CTAText)
	sb.WriteString("\n</div>\n")
}
