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


// Package openai implements the ai interfaces over OpenAI-compatible chat APIs.
//
// Both services speak JSON mode and tolerate the usual model misbehavior:
// markdown fences around JSON, bare "null" responses, and occasional
// non-JSON output from the generator.
//
// # Usage
//
//	provider, err := openai.NewProvider(ai.NewConfig(
//	    ai.WithHost("https://api.openai.com/v1"),
//	    ai.WithToken(os.Getenv("OPENAI_API_KEY")),
//	))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	finding, err := provider.RelevanceAnalyzer().ScoreRelevance(ctx, query, video, segments)
//	answer, err := provider.AnswerGenerator().SynthesizeAnswer(ctx, query, contextText)
package openai
