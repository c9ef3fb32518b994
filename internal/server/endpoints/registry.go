package endpoints

import "github.com/periscan/periscan/internal/api"

// All returns every endpoint the server exposes.
func All() []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&AnalyzeEndpoint{},
		&PageImageEndpoint{},
	}
}
