package components

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/pkg/core"
	"github.com/gabrielmiguelok/livesite/pkg/forms"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

// EventFormSubmit carries {formId, formData} from any form with a
// data-form-id attribute.
const EventFormSubmit = "form:submit"

// ContactSchema derives the validation schema of the contact form.
func ContactSchema(cfg website.ContactConfig) forms.Schema {
	fields := make([]forms.Field, 0, len(cfg.Fields))
	for _, f := range cfg.Fields {
		var opts []forms.FieldOption
		if f.Required {
			opts = append(opts, forms.WithRequired())
		}
		if f.Placeholder != "" {
			opts = append(opts, forms.WithPlaceholder(f.Placeholder))
		}
		if f.MaxLength > 0 {
			opts = append(opts, forms.WithMaxLength(f.MaxLength))
		}
		fields = append(fields, forms.NewField(f.Name, forms.ParseFieldType(f.Type), f.Label, opts...))
	}
	return forms.NewSchema(cfg.FormID, fields...)
}

// Contact renders the contact form and forwards its submissions.
type Contact struct {
	Config    website.ContactConfig
	Submitter *forms.Submitter
	Logger    logging.Logger
}

func (c *Contact) Name() string { return website.SectionContact }

func (c *Contact) Render(ctx context.Context, w io.Writer) error {
	cfg := c.Config
	schema := ContactSchema(cfg)
	var sb strings.Builder

	sb.WriteString(`<section id="contact" class="section" aria-labelledby="contact-title">` + "\n")
	sb.WriteString(`<div class="container text-center">` + "\n")
	fmt.Fprintf(&sb, `<h2 id="contact-title">%s</h2>`+"\n", esc(cfg.Title))
	if cfg.Subtitle != "" {
		fmt.Fprintf(&sb, "<p>%s</p>\n", esc(cfg.Subtitle))
	}

	fmt.Fprintf(&sb, `<form class="contact-form" data-form-id="%s" novalidate>`+"\n", esc(cfg.FormID))
	for _, f := range schema.Fields {
		writeField(&sb, cfg.FormID, f)
	}
	fmt.Fprintf(&sb, `<button type="submit" class="btn btn-primary btn-block">%s</button>`+"\n", esc(cfg.SubmitText))
	fmt.Fprintf(&sb, `<div class="form-message hidden" data-form-message="%s" role="status" aria-live="polite"></div>`+"\n", esc(cfg.FormID))
	sb.WriteString("</form>\n")

	sb.WriteString("</div>\n</section>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeField(sb *strings.Builder, formID string, f forms.Field) {
	id := formID + "-" + f.Name
	required := ""
	if f.Required {
		required = " required"
	}

	if f.Type == forms.FieldHidden {
		fmt.Fprintf(sb, `<input type="hidden" name="%s">`+"\n", esc(f.Name))
		return
	}

	fmt.Fprintf(sb, `<label for="%s">%s`+"\n", esc(id), esc(f.Label))
	if f.Type == forms.FieldTextarea {
		fmt.Fprintf(sb, `<textarea id="%s" name="%s" placeholder="%s"%s></textarea>`+"\n",
			esc(id), esc(f.Name), esc(f.Placeholder), required)
	} else {
		fmt.Fprintf(sb, `<input id="%s" type="%s" name="%s" placeholder="%s"%s>`+"\n",
			esc(id), esc(string(f.Type)), esc(f.Name), esc(f.Placeholder), required)
	}
	fmt.Fprintf(sb, `<span class="field-error" data-field-error="%s"></span>`+"\n", esc(f.Name))
	sb.WriteString("</label>\n")
}

func (c *Contact) Events() []string {
	return []string{EventFormSubmit}
}

// HandleEvent submits the form and pushes a form:result event. Submission
// failures are reported to the visitor, not returned.
func (c *Contact) HandleEvent(ctx context.Context, s *core.Socket, event string, payload map[string]any) error {
	sub := submissionFromPayload(payload)

	res, err := c.Submitter.Submit(ctx, s.ClientID(), sub)
	if err != nil && c.Logger != nil {
		level := c.Logger.Warn
		if errors.Is(err, forms.ErrRateLimited) || errors.Is(err, forms.ErrMissingFormID) {
			level = c.Logger.Info
		}
		level("form submission failed",
			logging.String("form_id", sub.FormID),
			logging.String("client_id", s.ClientID()),
			logging.Err(err),
		)
	}

	return s.Push(core.EventFormResult, resultPayload(res))
}

func submissionFromPayload(payload map[string]any) forms.Submission {
	sub := forms.Submission{FormData: map[string]string{}}
	sub.FormID, _ = payload["formId"].(string)

	data, _ := payload["formData"].(map[string]any)
	for k, v := range data {
		switch v := v.(type) {
		case string:
			sub.FormData[k] = v
		case nil:
		default:
			sub.FormData[k] = fmt.Sprint(v)
		}
	}
	return sub
}

func resultPayload(r forms.Result) map[string]any {
	p := map[string]any{
		"formId":  r.FormID,
		"success": r.Success,
		"message": r.Message,
	}
	if r.SubmissionID != "" {
		p["submissionId"] = r.SubmissionID
	}
	if r.Redirect != "" {
		p["redirect"] = r.Redirect
		p["redirectAfterMs"] = r.RedirectAfterMs
	}
	if r.HideAfterMs > 0 {
		p["hideAfterMs"] = r.HideAfterMs
	}
	if len(r.Errors) > 0 {
		p["errors"] = r.Errors
	}
	return p
}
