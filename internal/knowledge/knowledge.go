// Package knowledge loads the company catalog: pricing tiers, contact details and the
// canned reply texts the assistant falls back to.
package knowledge

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

type Tier struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
}

type Contact struct {
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	WhatsApp string `yaml:"whatsapp"`
	Hours    string `yaml:"hours"`
}

type Replies struct {
	NotConfigured string   `yaml:"not_configured"`
	CodeHelp      string   `yaml:"code_help"`
	Debugging     string   `yaml:"debugging"`
	Pricing       string   `yaml:"pricing"`
	Contact       string   `yaml:"contact"`
	Timeline      string   `yaml:"timeline"`
	Location      string   `yaml:"location"`
	Project       string   `yaml:"project"`
	Placeholder   string   `yaml:"placeholder"`
	Greetings     []string `yaml:"greetings"`
}

type Catalog struct {
	Company      string   `yaml:"company"`
	Tagline      string   `yaml:"tagline"`
	Capabilities []string `yaml:"capabilities"`
	Tiers        []Tier   `yaml:"tiers"`
	Contact      Contact  `yaml:"contact"`
	Address      string   `yaml:"address"`
	Replies      Replies  `yaml:"replies"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog file; an empty path yields the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error parsing catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	var errs []error
	if c.Company == "" {
		errs = append(errs, errors.New("company is required"))
	}
	r := c.Replies
	for name, v := range map[string]string{
		"not_configured": r.NotConfigured,
		"code_help":      r.CodeHelp,
		"debugging":      r.Debugging,
		"pricing":        r.Pricing,
		"contact":        r.Contact,
		"timeline":       r.Timeline,
		"location":       r.Location,
		"project":        r.Project,
		"placeholder":    r.Placeholder,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("replies.%s is required", name))
		}
	}
	if strings.Count(r.Project, "%s") != 3 {
		errs = append(errs, errors.New("replies.project must contain exactly three %s placeholders"))
	}
	if len(r.Greetings) == 0 {
		errs = append(errs, errors.New("replies.greetings must not be empty"))
	}
	return errors.Join(errs...)
}

// SystemPrompt renders the instruction sent ahead of the training examples.
func (c *Catalog) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the friendly sales assistant of %s. %s\n", c.Company, c.Tagline)
	b.WriteString("Answer questions about our services, pricing, timelines and contact details. ")
	b.WriteString("Be concise, positive and always suggest a next step.\n\n")

	b.WriteString("Capabilities:\n")
	for _, item := range c.Capabilities {
		fmt.Fprintf(&b, "- %s\n", item)
	}

	b.WriteString("\nPricing:\n")
	for _, t := range c.Tiers {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", t.Name, t.Price, t.Description)
	}

	b.WriteString("\nContact:\n")
	fmt.Fprintf(&b, "- Email: %s\n", c.Contact.Email)
	fmt.Fprintf(&b, "- Phone: %s\n", c.Contact.Phone)
	if c.Contact.WhatsApp != "" {
		fmt.Fprintf(&b, "- WhatsApp: %s\n", c.Contact.WhatsApp)
	}
	if c.Contact.Hours != "" {
		fmt.Fprintf(&b, "- Hours: %s\n", c.Contact.Hours)
	}
	fmt.Fprintf(&b, "- Address: %s\n", c.Address)
	return b.String()
}
