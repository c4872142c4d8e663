package main

import (
	"os"

	_ "github.com/bizmatters/agent-builder/spec-elicitor/docs" // swagger docs
)

// @title Spec Elicitor API
// @version 1.0
// @description Guided dialogue that turns a feature idea into a specification.
// @description
// @description A dialogue asks at most five questions, then identifies the stakeholders
// @description who must validate the feature and writes the final specification document.

// @contact.name API Support
// @contact.email support@bizmatters.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	if err := newRootCmd(os.Getenv).Execute(); err != nil {
		os.Exit(1)
	}
}
