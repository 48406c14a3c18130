package handler

import "github.com/go-playground/validator/v10"

// validate is shared by every handler; the validator is safe for
// concurrent use once configured.
var validate = validator.New(validator.WithRequiredStructEnabled())
