// Package template loads the built-in announcement template catalogue.
package template

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	domain "github.com/rewardsboard/eventcast/internal/domain/template"
	vo "github.com/rewardsboard/eventcast/internal/domain/template/valueobjects"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

//go:embed systemtemplates.yaml
var builtinCatalogue []byte

// OverrideFileName replaces the built-in catalogue when found in the configured directory.
const OverrideFileName = "system_templates.yaml"

type catalogueFile struct {
	Templates []catalogueEntry `yaml:"templates"`
}

type catalogueEntry struct {
	Name        string                       `yaml:"name"`
	Description string                       `yaml:"description"`
	Category    string                       `yaml:"category"`
	Type        string                       `yaml:"type"`
	Priority    string                       `yaml:"priority"`
	Title       string                       `yaml:"title"`
	Content     string                       `yaml:"content"`
	Summary     string                       `yaml:"summary"`
	Variables   map[string]catalogueVariable `yaml:"variables"`
	Defaults    catalogueDefaults            `yaml:"defaults"`
}

type catalogueVariable struct {
	Type        string               `yaml:"type"`
	Required    bool                 `yaml:"required"`
	Default     any                  `yaml:"default"`
	Description string               `yaml:"description"`
	Validation  *catalogueValidation `yaml:"validation"`
}

type catalogueValidation struct {
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
	Pattern string   `yaml:"pattern"`
	Options []string `yaml:"options"`
}

type catalogueDefaults struct {
	Category       *string  `yaml:"category"`
	Tags           []string `yaml:"tags"`
	TargetAudience []string `yaml:"targetAudience"`
	IsPublished    *bool    `yaml:"isPublished"`
	IsFeatured     *bool    `yaml:"isFeatured"`
}

// SystemTemplateLoader reads system template definitions, preferring an
// operator supplied file over the embedded catalogue.
type SystemTemplateLoader struct {
	path   string
	logger logger.Interface
}

// NewSystemTemplateLoader creates a loader. An empty path uses the embedded catalogue only.
func NewSystemTemplateLoader(path string, log logger.Interface) *SystemTemplateLoader {
	return &SystemTemplateLoader{
		path:   path,
		logger: log,
	}
}

// Load returns the system template definitions.
func (l *SystemTemplateLoader) Load() ([]domain.Definition, error) {
	content := builtinCatalogue
	source := "embedded"

	if l.path != "" {
		filePath := filepath.Join(l.path, OverrideFileName)
		data, err := os.ReadFile(filePath)
		switch {
		case err == nil:
			content = data
			source = filePath
		case os.IsNotExist(err):
			l.logger.Debugw("no system template override found, using embedded catalogue", "path", filePath)
		default:
			l.logger.Warnw("failed to read system template override", "file", filePath, "error", err)
		}
	}

	defs, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse system templates from %s: %w", source, err)
	}

	l.logger.Infow("system templates loaded", "source", source, "count", len(defs))
	return defs, nil
}

// Parse decodes a catalogue document into template definitions.
func Parse(content []byte) ([]domain.Definition, error) {
	var file catalogueFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, err
	}

	defs := make([]domain.Definition, 0, len(file.Templates))
	for _, entry := range file.Templates {
		def, err := entry.toDefinition()
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", entry.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (e catalogueEntry) toDefinition() (domain.Definition, error) {
	category, err := vo.NewCategory(e.Category)
	if err != nil {
		return domain.Definition{}, err
	}

	def := domain.Definition{
		Name:            e.Name,
		Description:     e.Description,
		Category:        category,
		TitleTemplate:   e.Title,
		ContentTemplate: e.Content,
		SummaryTemplate: e.Summary,
		Variables:       make(domain.Variables, len(e.Variables)),
		DefaultSettings: domain.Settings{
			Category:       e.Defaults.Category,
			Tags:           e.Defaults.Tags,
			TargetAudience: e.Defaults.TargetAudience,
			IsPublished:    e.Defaults.IsPublished,
			IsFeatured:     e.Defaults.IsFeatured,
		},
		CreatedBy: "system",
	}

	if e.Type != "" {
		if def.AnnouncementType, err = annvo.NewAnnouncementType(e.Type); err != nil {
			return domain.Definition{}, err
		}
	}
	if e.Priority != "" {
		if def.Priority, err = annvo.NewPriority(e.Priority); err != nil {
			return domain.Definition{}, err
		}
	}

	for name, v := range e.Variables {
		variable := domain.Variable{
			Type:         vo.VariableType(v.Type),
			Required:     v.Required,
			DefaultValue: v.Default,
			Description:  v.Description,
		}
		if v.Validation != nil {
			variable.Validation = &domain.ValueValidation{
				Min:     v.Validation.Min,
				Max:     v.Validation.Max,
				Pattern: v.Validation.Pattern,
				Options: v.Validation.Options,
			}
		}
		def.Variables[name] = variable
	}

	return def, nil
}
