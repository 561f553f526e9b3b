package panel

import (
	"HelpdeskAdmin/internal/constants"
	"HelpdeskAdmin/internal/envfile"
	"HelpdeskAdmin/internal/frontend"
	"HelpdeskAdmin/internal/logger"
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Field is one env value shown on a settings page.
type Field struct {
	Value string `json:"value" yaml:"value" toml:"value"`
}

// SMTPPage is the payload of the SMTP settings page.
type SMTPPage struct {
	Title string           `json:"title" yaml:"title" toml:"title"`
	Keys  map[string]Field `json:"keys" yaml:"keys" toml:"keys"`
	Demo  bool             `json:"demo" yaml:"demo" toml:"demo"`
}

// PusherPage is the payload of the push notification settings page.
type PusherPage struct {
	Title string           `json:"title" yaml:"title" toml:"title"`
	Keys  map[string]Field `json:"keys" yaml:"keys" toml:"keys"`
}

// PipingPage is the payload of the email piping settings page.
type PipingPage struct {
	Title  string           `json:"title" yaml:"title" toml:"title"`
	Keys   map[string]Field `json:"keys" yaml:"keys" toml:"keys"`
	Option map[string]any   `json:"option" yaml:"option" toml:"option,omitempty"`
	Demo   bool             `json:"demo" yaml:"demo" toml:"demo"`
}

// PipingUpdate is a submission of the piping form. EnablePiping, when set,
// becomes the value of the enable_piping option.
type PipingUpdate struct {
	Values       map[string]string
	EnablePiping any
}

// Masks shown instead of secrets in demo mode.
var (
	pusherMasks = map[string]string{
		"PUSHER_APP_ID":     strings.Repeat("*", 7),
		"PUSHER_APP_KEY":    strings.Repeat("*", 21),
		"PUSHER_APP_SECRET": strings.Repeat("*", 20),
	}
	pipingMasks = map[string]string{
		"IMAP_HOST":       strings.Repeat("*", 21),
		"IMAP_PORT":       strings.Repeat("*", 21),
		"IMAP_PROTOCOL":   strings.Repeat("*", 20),
		"IMAP_ENCRYPTION": strings.Repeat("*", 20),
		"IMAP_USERNAME":   strings.Repeat("*", 20),
		"IMAP_PASSWORD":   strings.Repeat("*", 20),
	}
)

func (p *Panel) fields(keys []string, masks map[string]string) (map[string]Field, error) {
	values, err := p.env.Values()
	if err != nil {
		return nil, err
	}
	out := make(map[string]Field, len(keys))
	for _, k := range keys {
		v := values[k]
		if mask, ok := masks[k]; ok && p.demo {
			v = mask
		}
		out[k] = Field{Value: v}
	}
	return out, nil
}

func (p *Panel) writeValidated(ctx context.Context, values map[string]string, order []string) error {
	written, err := p.env.UpsertMany(ctx, envfile.Ordered(values, order))
	if err != nil {
		if len(written) > 0 {
			logger.Warn(ctx, "Env file partially updated: %s", strings.Join(written, ", "))
		}
		return err
	}
	return nil
}

// SMTP builds the SMTP settings page.
func (p *Panel) SMTP(ctx context.Context) (SMTPPage, error) {
	keys, err := p.fields(constants.SMTPKeys, nil)
	if err != nil {
		return SMTPPage{}, err
	}
	return SMTPPage{Title: "SMTP Settings", Keys: keys, Demo: p.demo}, nil
}

var smtpFields = []field{
	{"MAIL_HOST", required},
	{"MAIL_PORT", required},
	{"MAIL_USERNAME", required},
	{"MAIL_PASSWORD", required},
	{"MAIL_ENCRYPTION", required},
	{"MAIL_FROM_ADDRESS", optionalEmail},
	{"MAIL_FROM_NAME", optional},
}

// UpdateSMTP validates and writes the mail settings.
func (p *Panel) UpdateSMTP(ctx context.Context, input map[string]string) (Flash, error) {
	if p.demo {
		return p.demoGate("Updating SMTP settings is not allowed in demo mode.")
	}

	values, order, err := validate(input, smtpFields)
	if err != nil {
		return Flash{}, err
	}
	if err := p.writeValidated(ctx, values, order); err != nil {
		return Flash{}, err
	}
	return success("SMTP configuration updated!"), nil
}

// Pusher builds the push notification settings page.
func (p *Panel) Pusher(ctx context.Context) (PusherPage, error) {
	keys, err := p.fields(constants.PusherKeys, pusherMasks)
	if err != nil {
		return PusherPage{}, err
	}
	return PusherPage{Title: "Pusher Settings", Keys: keys}, nil
}

// UpdatePusher writes the Pusher credentials and patches the compiled
// front-end bundle with the new key and cluster.
func (p *Panel) UpdatePusher(ctx context.Context, input map[string]string) (Flash, error) {
	if p.demo {
		return p.demoGate("Updating Pusher settings is not allowed in demo mode.")
	}

	values, order, err := validate(input, requiredFields(constants.PusherKeys))
	if err != nil {
		return Flash{}, err
	}
	if err := p.writeValidated(ctx, values, order); err != nil {
		return Flash{}, err
	}

	bundle := filepath.Join(p.conf.PublicDir, filepath.FromSlash(constants.AppJSPath))
	res, err := frontend.PatchPusher(bundle, values[constants.PusherAppKey], values[constants.PusherAppCluster])
	if err != nil {
		return Flash{}, fmt.Errorf("patch front-end bundle: %w", err)
	}
	if !res.Found {
		logger.Warn(ctx, "No Pusher configuration found in %s", bundle)
	}

	return success("Pusher configuration updated!"), nil
}

// pipingOption loads enable_options and returns it with the index of the
// enable_piping option, or -1.
func (p *Panel) pipingOption(ctx context.Context) ([]map[string]any, int, error) {
	e, err := p.repo.Find(ctx, constants.EnableOptionsSlug)
	if err != nil || e == nil || e.Value == "" {
		return nil, -1, err
	}

	raw, err := e.Decoded()
	if err != nil {
		return nil, -1, err
	}
	list, _ := raw.([]any)

	options := make([]map[string]any, 0, len(list))
	idx := -1
	for _, item := range list {
		opt, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if idx < 0 && opt["slug"] == constants.EnablePipingSlug {
			idx = len(options)
		}
		options = append(options, opt)
	}
	return options, idx, nil
}

// Piping builds the email piping settings page.
func (p *Panel) Piping(ctx context.Context) (PipingPage, error) {
	keys, err := p.fields(constants.PipingKeys, pipingMasks)
	if err != nil {
		return PipingPage{}, err
	}

	options, idx, err := p.pipingOption(ctx)
	if err != nil {
		return PipingPage{}, err
	}
	var option map[string]any
	if idx >= 0 {
		option = options[idx]
	}

	return PipingPage{Title: "Email Piping Settings", Keys: keys, Option: option, Demo: p.demo}, nil
}

// UpdatePiping validates the mailbox credentials, updates the enable_piping
// option when one was submitted, then writes the credentials.
func (p *Panel) UpdatePiping(ctx context.Context, u PipingUpdate) (Flash, error) {
	if p.demo {
		return p.demoGate("Updating piping settings is not allowed in demo mode.")
	}

	values, order, err := validate(u.Values, requiredFields(constants.PipingKeys))
	if err != nil {
		return Flash{}, err
	}

	if !isEmpty(u.EnablePiping) {
		options, idx, err := p.pipingOption(ctx)
		if err != nil {
			return Flash{}, err
		}
		if idx >= 0 {
			options[idx]["value"] = u.EnablePiping
			if _, err := p.repo.Put(ctx, constants.EnableOptionsSlug, options); err != nil {
				return Flash{}, err
			}
		}
	}

	if err := p.writeValidated(ctx, values, order); err != nil {
		return Flash{}, err
	}
	return success("Piping settings updated!"), nil
}
