package website

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// LightColors is the palette used when the html element has no dark class.
var LightColors = map[string]string{
	"bg":         "#FFFFFF",
	"bgAlt":      "#F8FAFC",
	"muted":      "#F1F5F9",
	"text":       "#0F172A",
	"textMuted":  "#475569",
	"primary":    "#2563EB",
	"primaryFg":  "#FFFFFF",
	"border":     "#E2E8F0",
	"success":    "#047857",
	"danger":     "#B91C1C",
	"popular":    "#2563EB",
	"popularFg":  "#FFFFFF",
	"overlayNav": "rgba(255,255,255,0.92)",
}

// DarkColors is the palette applied under html.dark.
var DarkColors = map[string]string{
	"bg":         "#0F172A",
	"bgAlt":      "#1E293B",
	"muted":      "#1E293B",
	"text":       "#F8FAFC",
	"textMuted":  "#CBD5E1",
	"primary":    "#60A5FA",
	"primaryFg":  "#0F172A",
	"border":     "#334155",
	"success":    "#34D399",
	"danger":     "#F87171",
	"popular":    "#60A5FA",
	"popularFg":  "#0F172A",
	"overlayNav": "rgba(15,23,42,0.92)",
}

// FontFamily is the system font stack.
var FontFamily = `system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif`

// StyleOption customizes the generated CSS.
type StyleOption func(*styleConfig)

type styleConfig struct {
	light      map[string]string
	dark       map[string]string
	animations bool
}

// WithLightColors overrides entries of the light palette.
func WithLightColors(colors map[string]string) StyleOption {
	return func(cfg *styleConfig) {
		maps.Copy(cfg.light, colors)
	}
}

// WithDarkColors overrides entries of the dark palette.
func WithDarkColors(colors map[string]string) StyleOption {
	return func(cfg *styleConfig) {
		maps.Copy(cfg.dark, colors)
	}
}

// WithAnimations toggles the entrance animations.
func WithAnimations(include bool) StyleOption {
	return func(cfg *styleConfig) {
		cfg.animations = include
	}
}

// RenderStyles generates the site stylesheet.
func RenderStyles(opts ...StyleOption) string {
	cfg := &styleConfig{
		light:      maps.Clone(LightColors),
		dark:       maps.Clone(DarkColors),
		animations: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var sb strings.Builder
	sb.WriteString(cssReset())
	sb.WriteString(cssVariables(":root", cfg.light))
	sb.WriteString(cssVariables("html.dark", cfg.dark))
	sb.WriteString(cssBase())
	sb.WriteString(cssLayout())
	sb.WriteString(cssNavigation())
	sb.WriteString(cssButtons())
	sb.WriteString(cssHero())
	sb.WriteString(cssPricing())
	sb.WriteString(cssContact())
	sb.WriteString(cssFooter())
	if cfg.animations {
		sb.WriteString(cssAnimations())
	}
	sb.WriteString(cssAccessibility())
	sb.WriteString(cssResponsive())
	return sb.String()
}

func cssReset() string {
	return `
*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
html{-webkit-text-size-adjust:100%;scroll-behavior:smooth}
body{line-height:1.6;-webkit-font-smoothing:antialiased}
img,svg{display:block;max-width:100%}
input,button,textarea{font:inherit}
a{color:inherit;text-decoration:none}
ul{list-style:none}
`
}

// cssVariables emits the palette in sorted order so output is stable.
func cssVariables(selector string, colors map[string]string) string {
	vars := make([]string, 0, len(colors))
	for _, name := range slices.Sorted(maps.Keys(colors)) {
		vars = append(vars, fmt.Sprintf("--color-%s:%s", name, colors[name]))
	}
	return fmt.Sprintf("%s{%s;--font-sans:%s}\n", selector, strings.Join(vars, ";"), FontFamily)
}

func cssBase() string {
	return `
body{font-family:var(--font-sans);background:var(--color-bg);color:var(--color-text);min-height:100vh;transition:background 0.2s,color 0.2s}
h1{font-size:clamp(2rem,5vw,3.75rem);font-weight:800;letter-spacing:-0.02em;line-height:1.1}
h2{font-size:clamp(1.75rem,3vw,3rem);font-weight:700;line-height:1.2}
h3{font-size:1.25rem;font-weight:600}
p{color:var(--color-textMuted)}
`
}

func cssLayout() string {
	return `
.container{width:100%;max-width:1200px;margin:0 auto;padding:0 1rem}
.section{padding:4rem 0}
.text-center{text-align:center}
.grid{display:grid;gap:1.5rem;grid-template-columns:1fr}
`
}

func cssNavigation() string {
	return `
.nav{position:sticky;top:0;z-index:50;background:var(--color-overlayNav);backdrop-filter:blur(12px);border-bottom:1px solid var(--color-border)}
.nav-inner{display:flex;align-items:center;justify-content:space-between;height:4rem;gap:1rem}
.brand{font-size:1.25rem;font-weight:700}
.nav-links{display:none;align-items:center;gap:1.5rem}
.nav-links a{color:var(--color-textMuted)}
.nav-links a:hover{color:var(--color-text)}
.nav-menu-toggle{background:transparent;border:1px solid var(--color-border);border-radius:0.5rem;width:2.5rem;height:2.5rem;cursor:pointer;color:var(--color-text)}
.nav-mobile{display:none;flex-direction:column;gap:1rem;padding:1rem 1.5rem 1.5rem;border-top:1px solid var(--color-border)}
.nav-mobile.open{display:flex}
.nav-mobile a{color:var(--color-textMuted)}
.theme-toggle{background:transparent;border:1px solid var(--color-border);border-radius:0.5rem;width:2.5rem;height:2.5rem;cursor:pointer;color:var(--color-text)}
`
}

func cssButtons() string {
	return `
.btn{display:inline-flex;align-items:center;justify-content:center;gap:0.5rem;padding:0.75rem 1.5rem;font-weight:600;border-radius:0.5rem;border:1px solid transparent;cursor:pointer;min-height:2.75rem;transition:opacity 0.2s}
.btn:hover{opacity:0.9}
.btn-primary{background:var(--color-primary);color:var(--color-primaryFg)}
.btn-outline{background:transparent;color:var(--color-text);border-color:var(--color-border)}
.btn-block{width:100%}
`
}

func cssHero() string {
	return `
.hero{padding:4rem 0}
.hero-grid{display:grid;gap:3rem;align-items:center}
.announcement{display:inline-block;padding:0.25rem 0.75rem;border-radius:9999px;background:var(--color-muted);font-size:0.875rem;margin-bottom:1.5rem}
.hero-subtitle{font-size:1.125rem;margin:1.5rem 0 2rem;max-width:40rem}
.hero-actions{display:flex;flex-wrap:wrap;gap:1rem}
.hero-features{margin-top:2rem;display:grid;gap:0.5rem}
.hero-features li::before{content:"✓ ";color:var(--color-success)}
.hero-image{border-radius:1rem;box-shadow:0 25px 50px rgba(0,0,0,0.15)}
.trust-badge{margin-top:1rem;font-size:0.875rem;color:var(--color-textMuted)}
`
}

func cssPricing() string {
	return `
.billing-toggle{display:inline-flex;background:var(--color-muted);border-radius:0.5rem;padding:0.25rem;margin-top:2rem}
.billing-toggle button{background:transparent;border:none;padding:0.5rem 1rem;border-radius:0.375rem;cursor:pointer;color:var(--color-textMuted)}
#pricing:not(.yearly) [data-billing="monthly"],#pricing.yearly [data-billing="yearly"]{background:var(--color-bg);color:var(--color-text)}
.discount{margin-left:0.25rem;font-size:0.75rem;color:var(--color-success)}
.plan{position:relative;padding:2rem;border:1px solid var(--color-border);border-radius:1rem;background:var(--color-bgAlt);display:flex;flex-direction:column}
.plan.popular{border-color:var(--color-popular);box-shadow:0 10px 30px rgba(37,99,235,0.15)}
.popular-badge{position:absolute;top:-0.75rem;left:50%;transform:translateX(-50%);background:var(--color-popular);color:var(--color-popularFg);font-size:0.75rem;padding:0.25rem 0.75rem;border-radius:9999px}
.price{font-size:2.5rem;font-weight:800;margin:1rem 0}
.price small{font-size:1rem;font-weight:400;color:var(--color-textMuted)}
.price-yearly{display:none}
#pricing.yearly .price-yearly{display:block}
#pricing.yearly .price-monthly{display:none}
.plan ul{margin:1.5rem 0;display:grid;gap:0.5rem;flex:1}
.plan li::before{content:"✓ ";color:var(--color-success)}
.guarantee{margin-top:3rem;text-align:center;font-size:0.875rem}
`
}

func cssContact() string {
	return `
.contact-form{max-width:36rem;margin:2rem auto 0;display:grid;gap:1rem}
.contact-form label{display:grid;gap:0.25rem;font-weight:500}
.contact-form input,.contact-form textarea{padding:0.75rem;border:1px solid var(--color-border);border-radius:0.5rem;background:var(--color-bg);color:var(--color-text)}
.contact-form textarea{min-height:8rem;resize:vertical}
.field-error{font-size:0.875rem;color:var(--color-danger)}
.form-message{padding:0.75rem 1rem;border-radius:0.5rem}
.form-message.success{background:var(--color-muted);color:var(--color-success)}
.form-message.error{background:var(--color-muted);color:var(--color-danger)}
.hidden{display:none}
`
}

func cssFooter() string {
	return `
.footer{border-top:1px solid var(--color-border);padding:3rem 0}
.footer-grid{display:grid;gap:2rem}
.footer h4{font-size:0.875rem;font-weight:600;margin-bottom:0.75rem}
.footer ul{display:grid;gap:0.5rem}
.footer a{color:var(--color-textMuted)}
.footer a:hover{color:var(--color-text)}
.social{display:flex;gap:1rem;margin-top:1rem}
.copyright{margin-top:2rem;padding-top:2rem;border-top:1px solid var(--color-border);font-size:0.875rem;text-align:center}
`
}

func cssAnimations() string {
	return `
@keyframes fadeIn{from{opacity:0;transform:translateY(16px)}to{opacity:1;transform:translateY(0)}}
.animate-fade-in{animation:fadeIn 0.6s ease forwards}
@media(prefers-reduced-motion:reduce){*{animation-duration:0.01ms!important;transition-duration:0.01ms!important}html{scroll-behavior:auto}}
`
}

func cssAccessibility() string {
	return `
.sr-only{position:absolute;width:1px;height:1px;padding:0;margin:-1px;overflow:hidden;clip:rect(0,0,0,0);white-space:nowrap;border:0}
.skip-link{position:absolute;top:-40px;left:0;background:var(--color-primary);color:var(--color-primaryFg);padding:0.5rem 1rem;z-index:100}
.skip-link:focus{top:0}
:focus-visible{outline:2px solid var(--color-primary);outline-offset:2px}
`
}

func cssResponsive() string {
	return `
@media(min-width:768px){
.container{padding:0 1.5rem}
.nav-links{display:flex}
.nav-menu-toggle,.nav-mobile,.nav-mobile.open{display:none}
.grid-3{grid-template-columns:repeat(3,1fr)}
.footer-grid{grid-template-columns:2fr 1fr 1fr}
.section{padding:5rem 0}
}
@media(min-width:1024px){
.hero-grid{grid-template-columns:1fr 1fr}
.container{padding:0 2rem}
}
`
}
