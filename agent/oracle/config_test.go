package oracle

import "testing"

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := Config{APIKey: "sk-test", Model: "google/gemini-flash"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if err := (Config{Model: "m"}).Validate(); err == nil {
		t.Error("missing api key must be rejected")
	}
	if err := (Config{APIKey: "sk-test"}).Validate(); err == nil {
		t.Error("missing model must be rejected")
	}
}

func TestConfigOpenRouterForRoles(t *testing.T) {
	t.Parallel()

	cfg := Config{
		BaseURL:               "https://openrouter.ai/api/v1",
		APIKey:                "sk-test",
		Model:                 "shared/default",
		Temperature:           0.2,
		ClassifierModel:       "fast/classifier",
		ClassifierTemperature: 0,
		ResponderTemperature:  -1,
	}

	classifier := cfg.OpenRouterFor(RoleClassifier)
	if classifier.Model != "fast/classifier" {
		t.Errorf("classifier model = %q", classifier.Model)
	}
	if classifier.Temperature != 0 {
		t.Errorf("classifier temperature = %v, want the zero override", classifier.Temperature)
	}

	responder := cfg.OpenRouterFor(RoleResponder)
	if responder.Model != "shared/default" {
		t.Errorf("responder model = %q, want the shared default", responder.Model)
	}
	if responder.Temperature != 0.2 {
		t.Errorf("responder temperature = %v, want the shared default", responder.Temperature)
	}
}
