// Copyright 2025 walteh LLC
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

package text

import "strings"

// HasCRLF reports whether content uses CRLF line endings
func HasCRLF(content string) bool {
	return strings.Contains(content, "\r\n")
}

// NormalizeLF converts CRLF and lone CR line endings to LF
func NormalizeLF(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// ToCRLF converts every line ending to CRLF
func ToCRLF(content string) string {
	return strings.ReplaceAll(NormalizeLF(content), "\n", "\r\n")
}
