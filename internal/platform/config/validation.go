package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// reservedSourceNames are catalog source names the service registers itself.
var reservedSourceNames = []string{"reference", "products"}

// rule is a check that spans fields, which struct tags cannot express. It
// returns a problem description or "".
type rule func(*Config) string

var crossFieldRules = []rule{
	func(c *Config) string {
		if c.Storage.Driver == "redis" && c.Storage.Redis.Addr == "" {
			return "storage.redis.addr is required when storage.driver is redis"
		}

		return ""
	},
	func(c *Config) string {
		if c.Client.Retry.MaxInterval < c.Client.Retry.InitialInterval {
			return "client.retry.maxinterval must not be below client.retry.initialinterval"
		}

		return ""
	},
	func(c *Config) string {
		if c.Server.WriteTimeout > 0 && c.Server.RequestTimeout > c.Server.WriteTimeout {
			return "server.requesttimeout must not exceed server.writetimeout"
		}

		return ""
	},
	func(c *Config) string {
		if c.Catalog.Remote.Enabled && slices.Contains(reservedSourceNames, c.Catalog.Remote.Name) {
			return fmt.Sprintf("catalog.remote.name must not be one of: %s", strings.Join(reservedSourceNames, " "))
		}

		return ""
	},
}

// Validate fails fast: the service must not start with an invalid config.
// Every problem is reported at once.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}

		for _, fe := range fieldErrs {
			problems = append(problems, describe(fe))
		}
	}

	for _, check := range crossFieldRules {
		if p := check(c); p != "" {
			problems = append(problems, p)
		}
	}

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(problems, "\n  "))
}

var tagPhrases = map[string]string{
	"required":    "is required",
	"required_if": "is required when %s",
	"min":         "must be at least %s",
	"max":         "must be at most %s",
	"gt":          "must be greater than %s",
	"oneof":       "must be one of: %s",
	"url":         "must be a valid URL",
	"numeric":     "must contain only digits",
}

func describe(fe validator.FieldError) string {
	field := formatFieldPath(fe.Namespace())

	phrase, ok := tagPhrases[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}

	if strings.Contains(phrase, "%s") {
		phrase = fmt.Sprintf(phrase, fe.Param())
	}

	return field + " " + phrase
}

// formatFieldPath turns "Config.Catalog.ProductsPath" into
// "catalog.productspath".
func formatFieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = namespace
	}

	return strings.ToLower(rest)
}
