// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package mdtest provides a corpus of Markdown documents
// paired with their expected HTML rendering.
package mdtest

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Example is a single Markdown document and its expected rendering.
// HTML is compared after normalization,
// so whitespace between block elements is insignificant.
type Example struct {
	Section  string
	Name     string
	Markdown string
	HTML     string
}

//go:embed cases.json
var casesData []byte

// Load returns the examples in the corpus.
func Load() ([]Example, error) {
	var examples []Example
	if err := json.Unmarshal(casesData, &examples); err != nil {
		return nil, fmt.Errorf("load markdown examples: %w", err)
	}
	return examples, nil
}
