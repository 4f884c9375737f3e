// Package website holds the section configuration of the marketing site and
// renders the document shell around it.
//
// Every section type has a Default constructor carrying the stock copy. A
// config file decoded over the defaults replaces only the keys it names, so
// an empty file still produces a complete site.
package website

// PageConfig is the document metadata shared by every page.
type PageConfig struct {
	// Title is the page title.
	Title string `toml:"title"`
	// Description is the meta description.
	Description string `toml:"description"`
	// URL is the canonical site URL, used for og:url and robots.txt.
	URL string `toml:"url"`
	// Keywords are SEO keywords.
	Keywords []string `toml:"keywords"`
	// OGImage is the Open Graph image URL.
	OGImage string `toml:"og_image"`
	// Language is the html lang attribute.
	Language string `toml:"language"`
	// ThemeColor is the mobile browser theme color.
	ThemeColor string `toml:"theme_color"`
	// Favicon is the favicon href.
	Favicon string `toml:"favicon"`
}

// Link is a labelled href as authored in configuration.
type Link struct {
	Label string `toml:"label"`
	Href  string `toml:"href"`
}

// SocialLink is a footer social profile link.
type SocialLink struct {
	Platform string `toml:"platform"`
	Href     string `toml:"href"`
	Icon     string `toml:"icon"`
}

// NavigationConfig configures the top navigation bar.
type NavigationConfig struct {
	BrandName string `toml:"brand_name"`
	BrandHref string `toml:"brand_href"`
	Items     []Link `toml:"items"`
	CTAText   string `toml:"cta_text"`
	CTAHref   string `toml:"cta_href"`
	ShowCTA   bool   `toml:"show_cta"`
}

// HeroConfig configures the hero section.
type HeroConfig struct {
	Title            string   `toml:"title"`
	Subtitle         string   `toml:"subtitle"`
	CTAText          string   `toml:"cta_text"`
	CTAHref          string   `toml:"cta_href"`
	SecondaryCTAText string   `toml:"secondary_cta_text"`
	SecondaryCTAHref string   `toml:"secondary_cta_href"`
	ImageURL         string   `toml:"image_url"`
	ImageAlt         string   `toml:"image_alt"`
	Features         []string `toml:"features"`
	TrustBadge       string   `toml:"trust_badge"`
	Announcement     string   `toml:"announcement"`
}

// BillingToggle holds the labels of the monthly/yearly switch.
type BillingToggle struct {
	Monthly        string `toml:"monthly"`
	Yearly         string `toml:"yearly"`
	YearlyDiscount string `toml:"yearly_discount"`
}

// Plan is one pricing tier.
type Plan struct {
	Name         string   `toml:"name"`
	Description  string   `toml:"description"`
	MonthlyPrice int      `toml:"monthly_price"`
	YearlyPrice  int      `toml:"yearly_price"`
	Currency     string   `toml:"currency"`
	Period       string   `toml:"period"`
	Features     []string `toml:"features"`
	CTAText      string   `toml:"cta_text"`
	CTAHref      string   `toml:"cta_href"`
	Popular      bool     `toml:"popular"`
}

// PricingConfig configures the pricing section.
type PricingConfig struct {
	Title         string        `toml:"title"`
	Subtitle      string        `toml:"subtitle"`
	BillingToggle BillingToggle `toml:"billing_toggle"`
	Plans         []Plan        `toml:"plans"`
	Guarantee     string        `toml:"guarantee"`
}

// ContactField is one input of the contact form.
type ContactField struct {
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	Label       string `toml:"label"`
	Placeholder string `toml:"placeholder"`
	Required    bool   `toml:"required"`
	MaxLength   int    `toml:"max_length"`
}

// ContactConfig configures the contact section and its form.
type ContactConfig struct {
	Title      string         `toml:"title"`
	Subtitle   string         `toml:"subtitle"`
	FormID     string         `toml:"form_id"`
	SubmitText string         `toml:"submit_text"`
	Fields     []ContactField `toml:"fields"`
}

// FooterConfig configures the footer.
type FooterConfig struct {
	BrandName    string       `toml:"brand_name"`
	Tagline      string       `toml:"tagline"`
	Copyright    string       `toml:"copyright"`
	CompanyLinks []Link       `toml:"company_links"`
	LegalLinks   []Link       `toml:"legal_links"`
	SocialLinks  []SocialLink `toml:"social_links"`
	ContactEmail string       `toml:"contact_email"`
	ContactPhone string       `toml:"contact_phone"`
}

// PageSpec lists the sections rendered at a path, in order.
type PageSpec struct {
	Path     string   `toml:"path"`
	Title    string   `toml:"title"`
	Sections []string `toml:"sections"`
}

// Section names usable in PageSpec.Sections.
const (
	SectionNavigation = "navigation"
	SectionHero       = "hero"
	SectionPricing    = "pricing"
	SectionContact    = "contact"
	SectionFooter     = "footer"
)

// Site is the complete site configuration.
type Site struct {
	Page       PageConfig       `toml:"page"`
	Navigation NavigationConfig `toml:"navigation"`
	Hero       HeroConfig       `toml:"hero"`
	Pricing    PricingConfig    `toml:"pricing"`
	Contact    ContactConfig    `toml:"contact"`
	Footer     FooterConfig     `toml:"footer"`
	Pages      []PageSpec       `toml:"pages"`
}

// DefaultSite returns the stock site.
func DefaultSite() Site {
	return Site{
		Page:       DefaultPageConfig(),
		Navigation: DefaultNavigation(),
		Hero:       DefaultHero(),
		Pricing:    DefaultPricing(),
		Contact:    DefaultContact(),
		Footer:     DefaultFooter(),
		Pages:      DefaultPages(),
	}
}

// Lookup returns the page configured at path.
func (s Site) Lookup(path string) (PageSpec, bool) {
	for _, p := range s.Pages {
		if p.Path == path {
			return p, true
		}
	}
	return PageSpec{}, false
}

// Paths returns the configured page paths in configuration order.
func (s Site) Paths() []string {
	paths := make([]string, len(s.Pages))
	for i, p := range s.Pages {
		paths[i] = p.Path
	}
	return paths
}

// DefaultPageConfig returns the default document metadata.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Title:       "TechFlow",
		Description: "Simple, powerful development tools that work for teams of all sizes.",
		Language:    "en",
		ThemeColor:  "#2563EB",
	}
}

// DefaultNavigation returns the default navigation bar.
func DefaultNavigation() NavigationConfig {
	return NavigationConfig{
		BrandName: "TechFlow",
		BrandHref: "#hero",
		Items: []Link{
			{Label: "Home", Href: "#hero"},
			{Label: "Pricing", Href: "#pricing"},
		},
		CTAText: "Get Started",
		CTAHref: "#pricing",
		ShowCTA: true,
	}
}

// DefaultHero returns the default hero section.
func DefaultHero() HeroConfig {
	return HeroConfig{
		Title:            "Build Better Software, Faster",
		Subtitle:         "Simple, powerful development tools that work for teams of all sizes. No complexity, just results.",
		CTAText:          "Start Building Today",
		CTAHref:          "/get-started",
		SecondaryCTAText: "View Pricing",
		SecondaryCTAHref: "/pricing",
		ImageURL:         "https://images.unsplash.com/photo-1551434678-e076c223a692?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D&auto=format&fit=crop&w=2070&q=80",
		ImageAlt:         "Development team collaborating on code",
		Features: []string{
			"Deploy in minutes, not hours",
			"Scale automatically with demand",
			"Built-in security and monitoring",
		},
		TrustBadge:   "Trusted by 10,000+ developers",
		Announcement: "New: AI-powered code suggestions now available",
	}
}

// DefaultPricing returns the default pricing section.
func DefaultPricing() PricingConfig {
	return PricingConfig{
		Title:    "Simple Pricing",
		Subtitle: "Choose the plan that works for you. No hidden fees, no surprises.",
		BillingToggle: BillingToggle{
			Monthly:        "Monthly",
			Yearly:         "Yearly",
			YearlyDiscount: "Save 20%",
		},
		Plans: []Plan{
			{
				Name:         "Starter",
				Description:  "Perfect for individuals getting started",
				MonthlyPrice: 9,
				YearlyPrice:  7,
				Currency:     "$",
				Period:       "month",
				Features:     []string{"Up to 5 projects", "Basic analytics", "Email support", "1GB storage"},
				CTAText:      "Get Started",
				CTAHref:      "/signup?plan=starter",
			},
			{
				Name:         "Professional",
				Description:  "For growing teams and businesses",
				MonthlyPrice: 29,
				YearlyPrice:  23,
				Currency:     "$",
				Period:       "month",
				Features: []string{
					"Unlimited projects",
					"Advanced analytics",
					"Priority support",
					"10GB storage",
					"Team collaboration",
					"Custom integrations",
				},
				CTAText: "Start Free Trial",
				CTAHref: "/signup?plan=professional",
				Popular: true,
			},
			{
				Name:         "Enterprise",
				Description:  "Custom solutions for large organizations",
				MonthlyPrice: 99,
				YearlyPrice:  79,
				Currency:     "$",
				Period:       "month",
				Features: []string{
					"Everything in Professional",
					"Unlimited storage",
					"24/7 phone support",
					"Custom onboarding",
					"SLA guarantee",
					"Advanced security",
				},
				CTAText: "Contact Sales",
				CTAHref: "/contact?plan=enterprise",
			},
		},
		Guarantee: "30-day money-back guarantee on all plans",
	}
}

// DefaultContact returns the default contact section.
func DefaultContact() ContactConfig {
	return ContactConfig{
		Title:      "Get in Touch",
		Subtitle:   "Questions about a plan? Send us a message and we will get back to you.",
		FormID:     "contact",
		SubmitText: "Send Message",
		Fields: []ContactField{
			{Name: "name", Type: "text", Label: "Name", Placeholder: "Jane Doe", Required: true, MaxLength: 100},
			{Name: "email", Type: "email", Label: "Email", Placeholder: "jane@example.com", Required: true},
			{Name: "message", Type: "textarea", Label: "Message", Placeholder: "How can we help?", Required: true, MaxLength: 2000},
		},
	}
}

// DefaultFooter returns the default footer.
func DefaultFooter() FooterConfig {
	return FooterConfig{
		BrandName: "Test Website",
		Tagline:   "Simple, powerful solutions that work for everyone, everywhere.",
		Copyright: "© 2024 Test Website. All rights reserved.",
		CompanyLinks: []Link{
			{Label: "About", Href: "/about"},
			{Label: "Careers", Href: "/careers"},
		},
		LegalLinks: []Link{
			{Label: "Privacy Policy", Href: "/privacy"},
			{Label: "Terms of Service", Href: "/terms"},
		},
		SocialLinks: []SocialLink{
			{Platform: "GitHub", Href: "https://github.com", Icon: "github"},
			{Platform: "Twitter", Href: "https://twitter.com", Icon: "twitter"},
		},
		ContactEmail: "hello@testwebsite.com",
		ContactPhone: "+1 (555) 123-4567",
	}
}

// DefaultPages returns the single home page.
func DefaultPages() []PageSpec {
	return []PageSpec{
		{
			Path: "/",
			Sections: []string{
				SectionNavigation,
				SectionHero,
				SectionPricing,
				SectionContact,
				SectionFooter,
			},
		},
	}
}
