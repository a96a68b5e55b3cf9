package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "METABENCH"
	propertiesType   = "properties"
)

var (
	ErrNoConfigFile = errors.New("no properties file given")

	validate = validator.New()
)

// Properties is a loaded properties source. Lookups see, in order of
// precedence, environment variables (PREFIX_SECTION_KEY), the file and the
// defaults.
type Properties struct {
	v    *viper.Viper
	path string
}

// Load reads the properties file at path. A missing or unreadable file is
// an error, the configuration is not usable without it.
func Load(path string, envPrefix string, defaults map[string]interface{}) (*Properties, error) {
	if path == "" {
		return nil, ErrNoConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read properties %s: %w", path, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	v.SetConfigFile(path)
	v.SetConfigType(propertiesType)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read properties %s: %w", path, err)
	}
	return &Properties{v: v, path: path}, nil
}

func (p *Properties) Path() string {
	return p.path
}

func (p *Properties) GetString(key string) string {
	return p.v.GetString(key)
}

func (p *Properties) GetInt(key string) int {
	return p.v.GetInt(key)
}

func (p *Properties) GetFloat64(key string) float64 {
	return p.v.GetFloat64(key)
}

func (p *Properties) IsSet(key string) bool {
	return p.v.IsSet(key)
}

// Unmarshal decodes into out by its mapstructure tags and validates the
// result.
func (p *Properties) Unmarshal(out interface{}) error {
	if err := p.v.Unmarshal(out); err != nil {
		return fmt.Errorf("decode properties %s: %w", p.path, err)
	}
	return Validate(out)
}

// Validate checks out against its validate tags.
func Validate(out interface{}) error {
	if err := validate.Struct(out); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
		return err
	}
	return nil
}
