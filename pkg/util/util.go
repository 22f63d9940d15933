// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

// DefaultVectorSize is the standard chunk/vector row capacity used when
// initializing a Bitmap without an explicit count.
const DefaultVectorSize = 2048

// AssertFunc panics on an internal invariant violation. pkg/exec recovers
// at the Executor.Execute boundary and turns the panic into a
// dagerr.LogicalError, so AssertFunc itself stays a bare panic rather than
// growing its own error-returning variant.
func AssertFunc(b bool) {
	if !b {
		panic("assertion failed")
	}
}
