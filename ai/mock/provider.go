// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/poiesic/clipfind/ai"

// Provider is a test double for ai.Provider.
// It aggregates mock analyzer and generator instances.
type Provider struct {
	analyzer  *Analyzer
	generator *Generator
}

// NewProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetAnalyzer()/GetGenerator() to access concrete types for test assertions.
func NewProvider() ai.Provider {
	return &Provider{
		analyzer:  NewAnalyzer(),
		generator: NewGenerator(),
	}
}

// NewProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewProviderWithServices(analyzer *Analyzer, generator *Generator) ai.Provider {
	return &Provider{
		analyzer:  analyzer,
		generator: generator,
	}
}

// RelevanceAnalyzer returns the mock analyzer.
func (p *Provider) RelevanceAnalyzer() ai.RelevanceAnalyzer {
	return p.analyzer
}

// AnswerGenerator returns the mock generator.
func (p *Provider) AnswerGenerator() ai.AnswerGenerator {
	return p.generator
}

// Close is a no-op for mock provider.
func (p *Provider) Close() error {
	return nil
}

// GetAnalyzer returns the underlying mock analyzer for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *Provider) GetAnalyzer() *Analyzer {
	return p.analyzer
}

// GetGenerator returns the underlying mock generator for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *Provider) GetGenerator() *Generator {
	return p.generator
}
