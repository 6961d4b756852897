// Copyright 2026 The Agent URI Authors
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

package uri

import (
	"strconv"
	"strings"
)

const schemeSep = "://"

// Parse tokenizes and parses s per the agent-uri grammar, returning a
// *ParseError with the byte offset of the first bad byte on failure.
func Parse(s string) (AgentURI, error) {
	return parseBytes([]byte(s))
}

// ParseBytes is the []byte-accepting counterpart of Parse.
func ParseBytes(b []byte) (AgentURI, error) {
	return parseBytes(b)
}

func parseBytes(raw []byte) (AgentURI, error) {
	s := string(raw)

	sepIdx := strings.Index(s, schemeSep)
	if sepIdx < 0 {
		// A bare "agent:" (or anything else) without "//" is rejected.
		if colon := strings.IndexByte(s, ':'); colon >= 0 {
			return AgentURI{}, &ParseError{Position: colon, Reason: `scheme must be followed by "//"`}
		}
		return AgentURI{}, &ParseError{Position: 0, Reason: "missing scheme separator"}
	}

	schemePart := s[:sepIdx]
	transport, err := parseScheme(schemePart)
	if err != nil {
		return AgentURI{}, err
	}

	rest := s[sepIdx+len(schemeSep):]
	restBase := sepIdx + len(schemeSep)

	authorityEnd := indexAny(rest, "/?#")
	authority := rest[:authorityEnd]
	remainder := rest[authorityEnd:]
	remainderBase := restBase + authorityEnd

	userinfo, host, port, isDID, err := parseAuthority(authority, restBase)
	if err != nil {
		return AgentURI{}, err
	}

	pathSegments, remainder2, base2, err := parsePath(remainder, remainderBase)
	if err != nil {
		return AgentURI{}, err
	}

	query, remainder3, base3, err := parseQuery(remainder2, base2)
	if err != nil {
		return AgentURI{}, err
	}

	fragment, err := parseFragment(remainder3, base3)
	if err != nil {
		return AgentURI{}, err
	}

	return AgentURI{
		Transport:    transport,
		UserInfo:     userinfo,
		Host:         host,
		Port:         port,
		PathSegments: pathSegments,
		Query:        query,
		Fragment:     fragment,
		isDID:        isDID,
	}, nil
}

// IsValid reports whether s parses successfully. It never fails.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func parseScheme(schemePart string) (transport string, err error) {
	const lit = "agent"
	if len(schemePart) < len(lit) || !strings.EqualFold(schemePart[:len(lit)], lit) {
		return "", &ParseError{Position: 0, Reason: `scheme must be "agent" or "agent+<transport>"`}
	}
	rest := schemePart[len(lit):]
	if rest == "" {
		return "", nil
	}
	if rest[0] != '+' {
		return "", &ParseError{Position: len(lit), Reason: `expected "+" after "agent"`}
	}
	tag := rest[1:]
	if tag == "" {
		return "", &ParseError{Position: len(schemePart), Reason: "empty transport tag"}
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-') {
			return "", &ParseError{Position: len(lit) + 1 + i, Reason: "invalid character in transport tag"}
		}
	}
	return strings.ToLower(tag), nil
}

func indexAny(s, cutset string) int {
	if i := strings.IndexAny(s, cutset); i >= 0 {
		return i
	}
	return len(s)
}

func parseAuthority(authority string, base int) (userinfo, host string, port int, isDID bool, err error) {
	hostport := authority
	if at := strings.IndexByte(authority, '@'); at >= 0 {
		rawUserinfo := authority[:at]
		userinfo, err = pctDecode(rawUserinfo, base)
		if err != nil {
			return "", "", 0, false, err.(*ParseError)
		}
		hostport = authority[at+1:]
		base += at + 1
	}

	if hostport == "" {
		return "", "", 0, false, &ParseError{Position: base, Reason: "empty host"}
	}

	if isDIDPrefix(hostport) {
		host, err = pctDecode(hostport, base)
		if err != nil {
			return "", "", 0, false, err.(*ParseError)
		}
		return userinfo, host, 0, true, nil
	}

	if hostport[0] == '[' {
		close := strings.IndexByte(hostport, ']')
		if close < 0 {
			return "", "", 0, false, &ParseError{Position: base, Reason: "unterminated IP literal"}
		}
		host = hostport[:close+1]
		rest := hostport[close+1:]
		if rest == "" {
			return userinfo, host, 0, false, nil
		}
		if rest[0] != ':' {
			return "", "", 0, false, &ParseError{Position: base + close + 1, Reason: "unexpected character after IP literal"}
		}
		port, err = parsePort(rest[1:], base+close+2)
		if err != nil {
			return "", "", 0, false, err.(*ParseError)
		}
		return userinfo, host, port, false, nil
	}

	colon := strings.IndexByte(hostport, ':')
	rawHost := hostport
	if colon >= 0 {
		rawHost = hostport[:colon]
	}
	if rawHost == "" {
		return "", "", 0, false, &ParseError{Position: base, Reason: "empty host"}
	}
	if err := validateHostLabel(rawHost, base); err != nil {
		return "", "", 0, false, err
	}
	host, decErr := pctDecode(rawHost, base)
	if decErr != nil {
		return "", "", 0, false, decErr.(*ParseError)
	}
	host = strings.ToLower(host)
	if colon < 0 {
		return userinfo, host, 0, false, nil
	}
	port, err = parsePort(hostport[colon+1:], base+colon+1)
	if err != nil {
		return "", "", 0, false, err.(*ParseError)
	}
	return userinfo, host, port, false, nil
}

func isDIDPrefix(s string) bool {
	return len(s) >= 4 && strings.EqualFold(s[:4], "did:")
}

func validateHostLabel(rawHost string, base int) error {
	for i := 0; i < len(rawHost); i++ {
		c := rawHost[i]
		if c == '%' {
			if i+2 >= len(rawHost) {
				return &ParseError{Position: base + i, Reason: "truncated percent-encoding in host"}
			}
			i += 2
			continue
		}
		if isHostLabelSafe(c) {
			continue
		}
		return &ParseError{Position: base + i, Reason: "unencoded delimiter in host"}
	}
	return nil
}

func parsePort(s string, base int) (int, error) {
	if s == "" {
		return 0, &ParseError{Position: base, Reason: "empty port"}
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, &ParseError{Position: base + i, Reason: "invalid port"}
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > 65535 {
		return 0, &ParseError{Position: base, Reason: "port out of range 1..65535"}
	}
	return v, nil
}

func parsePath(remainder string, base int) (segments []string, rest string, restBase int, err error) {
	if remainder == "" || remainder[0] != '/' {
		return nil, remainder, base, nil
	}
	end := indexAny(remainder, "?#")
	pathPart := remainder[:end]
	rest = remainder[end:]
	restBase = base + end

	trimmed := strings.TrimPrefix(pathPart, "/")
	if trimmed == "" {
		return []string{}, rest, restBase, nil
	}
	raw := strings.Split(trimmed, "/")
	segments = make([]string, len(raw))
	pos := base + 1
	for i, seg := range raw {
		decoded, decErr := pctDecode(seg, pos)
		if decErr != nil {
			return nil, "", 0, decErr.(*ParseError)
		}
		segments[i] = decoded
		pos += len(seg) + 1
	}
	return segments, rest, restBase, nil
}

func parseQuery(remainder string, base int) (query []QueryParam, rest string, restBase int, err error) {
	if remainder == "" || remainder[0] != '?' {
		return nil, remainder, base, nil
	}
	body := remainder[1:]
	end := indexAny(body, "#")
	qs := body[:end]
	rest = remainder[1+end:]
	restBase = base + 1 + end

	if qs == "" {
		return []QueryParam{}, rest, restBase, nil
	}

	pairs := strings.Split(qs, "&")
	query = make([]QueryParam, 0, len(pairs))
	pos := base + 1
	for _, pair := range pairs {
		if pair == "" {
			pos++
			continue
		}
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			key, decErr := pctDecode(pair, pos)
			if decErr != nil {
				return nil, "", 0, decErr.(*ParseError)
			}
			query = append(query, QueryParam{Key: key, Value: nil})
		} else {
			key, decErr := pctDecode(pair[:eq], pos)
			if decErr != nil {
				return nil, "", 0, decErr.(*ParseError)
			}
			val, decErr := pctDecode(pair[eq+1:], pos+eq+1)
			if decErr != nil {
				return nil, "", 0, decErr.(*ParseError)
			}
			query = append(query, QueryParam{Key: key, Value: &val})
		}
		pos += len(pair) + 1
	}
	return query, rest, restBase, nil
}

func parseFragment(remainder string, base int) (*string, error) {
	if remainder == "" || remainder[0] != '#' {
		return nil, nil
	}
	raw := remainder[1:]
	decoded, err := pctDecode(raw, base+1)
	if err != nil {
		return nil, err
	}
	return &decoded, nil
}
