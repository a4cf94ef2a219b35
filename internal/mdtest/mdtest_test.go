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

package mdtest

import "testing"

func TestLoad(t *testing.T) {
	examples, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(examples) == 0 {
		t.Fatal("no examples")
	}
	seen := make(map[string]bool)
	for _, ex := range examples {
		key := ex.Section + "/" + ex.Name
		if ex.Section == "" || ex.Name == "" {
			t.Errorf("example %q is missing a section or name", key)
		}
		if seen[key] {
			t.Errorf("duplicate example %q", key)
		}
		seen[key] = true
	}
}
