package assertions

import (
	"strconv"
	"strings"

	"github.com/jobreach/email-api-contract-tests/transport"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Lookup finds the value at a dot-separated path. Numeric segments index into arrays,
// other segments are object keys. The empty path refers to v itself.
func Lookup(v ldvalue.Value, path string) (ldvalue.Value, bool) {
	if path == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch cur.Type() {
		case ldvalue.ArrayType:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= cur.Count() {
				return ldvalue.Null(), false
			}
			cur = cur.GetByIndex(i)
		case ldvalue.ObjectType:
			if !hasKey(cur, seg) {
				return ldvalue.Null(), false
			}
			cur = cur.GetByKey(seg)
		default:
			return ldvalue.Null(), false
		}
	}
	return cur, true
}

func hasKey(v ldvalue.Value, key string) bool {
	for _, k := range v.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func describePath(path string) string {
	if path == "" {
		return "response body"
	}
	return "field " + strconv.Quote(path)
}

// CheckFields requires v to be a JSON object containing every one of the required keys.
// On failure the detail lists the missing keys.
func CheckFields(v ldvalue.Value, required ...string) Outcome {
	if v.Type() != ldvalue.ObjectType {
		return fail("expected an object but got %s", v.Type())
	}
	var missing []string
	for _, k := range required {
		if !hasKey(v, k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fail("Missing fields: [%s]", strings.Join(missing, ", "))
	}
	return pass("")
}

// CheckCollectionMinLength requires the value at path to be an array with at least n
// elements.
func CheckCollectionMinLength(v ldvalue.Value, path string, n int) Outcome {
	target, ok := Lookup(v, path)
	if !ok {
		return fail("%s is missing", describePath(path))
	}
	if target.Type() != ldvalue.ArrayType {
		return fail("expected %s to be an array but got %s", describePath(path), target.Type())
	}
	if target.Count() < n {
		return fail("expected %s to have at least %d items but got %d", describePath(path), n, target.Count())
	}
	return pass("")
}

// CheckContains is a heuristic check that haystack contains needle. It is used on
// generated free text, so a failure may be a quirk of the generator rather than a
// contract violation; the Outcome is always marked Heuristic.
func CheckContains(haystack, needle string, caseInsensitive bool) Outcome {
	return CheckContainsAny(haystack, []string{needle}, caseInsensitive)
}

// CheckContainsAny is like CheckContains but succeeds if any of the needles is found.
func CheckContainsAny(haystack string, needles []string, caseInsensitive bool) Outcome {
	h := haystack
	if caseInsensitive {
		h = strings.ToLower(h)
	}
	for _, n := range needles {
		candidate := n
		if caseInsensitive {
			candidate = strings.ToLower(candidate)
		}
		if strings.Contains(h, candidate) {
			return Outcome{OK: true, Detail: "found " + strconv.Quote(n), Heuristic: true}
		}
	}
	quoted := make([]string, 0, len(needles))
	for _, n := range needles {
		quoted = append(quoted, strconv.Quote(n))
	}
	return Outcome{
		OK:        false,
		Detail:    "text does not contain " + strings.Join(quoted, " or "),
		Heuristic: true,
	}
}

func withDecoded(check func(ldvalue.Value) Outcome) Assertion {
	return func(resp *transport.Response) Outcome {
		v, ok := resp.Decoded()
		if !ok {
			return fail("%s", resp.DecodeError())
		}
		return check(v)
	}
}

// IsJSON requires the body to be decodable as JSON.
func IsJSON() Assertion {
	return withDecoded(func(ldvalue.Value) Outcome { return pass("") })
}

// HasFields requires the object at path to contain every one of the required keys.
func HasFields(path string, required ...string) Assertion {
	return withDecoded(func(v ldvalue.Value) Outcome {
		target, ok := Lookup(v, path)
		if !ok {
			return fail("%s is missing", describePath(path))
		}
		o := CheckFields(target, required...)
		if !o.OK && path != "" {
			o.Detail = describePath(path) + ": " + o.Detail
		}
		return o
	})
}

// IsArray requires the value at path to be an array, possibly empty.
func IsArray(path string) Assertion {
	return CollectionMinLength(path, 0)
}

// CollectionNonEmpty requires the value at path to be an array with at least one element.
func CollectionNonEmpty(path string) Assertion {
	return CollectionMinLength(path, 1)
}

// CollectionMinLength requires the value at path to be an array with at least n elements.
func CollectionMinLength(path string, n int) Assertion {
	return withDecoded(func(v ldvalue.Value) Outcome {
		return CheckCollectionMinLength(v, path, n)
	})
}

// FieldEquals requires the value at path to equal expected.
func FieldEquals(path string, expected ldvalue.Value) Assertion {
	return withDecoded(func(v ldvalue.Value) Outcome {
		target, ok := Lookup(v, path)
		if !ok {
			return fail("%s is missing", describePath(path))
		}
		if !target.Equal(expected) {
			return fail("expected %s to be %s but got %s", describePath(path), expected.JSONString(), target.JSONString())
		}
		return pass("")
	})
}

// StringMinLength requires the value at path to be a string of at least n characters.
func StringMinLength(path string, n int) Assertion {
	return withDecoded(func(v ldvalue.Value) Outcome {
		target, ok := Lookup(v, path)
		if !ok {
			return fail("%s is missing", describePath(path))
		}
		if !target.IsString() {
			return fail("expected %s to be a string but got %s", describePath(path), target.Type())
		}
		if l := len([]rune(target.StringValue())); l < n {
			return fail("expected %s to be at least %d characters but it was %d", describePath(path), n, l)
		}
		return pass("")
	})
}

// ContainsSubstring is the response-level form of CheckContains, applied to the string
// at path. Like CheckContains it is heuristic.
func ContainsSubstring(path, needle string, caseInsensitive bool) Assertion {
	return ContainsAnySubstring(path, []string{needle}, caseInsensitive)
}

// ContainsAnySubstring is the response-level form of CheckContainsAny.
func ContainsAnySubstring(path string, needles []string, caseInsensitive bool) Assertion {
	return withDecoded(func(v ldvalue.Value) Outcome {
		target, ok := Lookup(v, path)
		if !ok {
			return fail("%s is missing", describePath(path))
		}
		if !target.IsString() {
			return fail("expected %s to be a string but got %s", describePath(path), target.Type())
		}
		o := CheckContainsAny(target.StringValue(), needles, caseInsensitive)
		o.Detail = describePath(path) + ": " + o.Detail
		return o
	})
}

// BodyContains checks the raw response body for a substring. Unlike ContainsSubstring it
// works on bodies that are not JSON, and it is used for fixed server messages rather than
// generated text, so it is not heuristic.
func BodyContains(needle string, caseInsensitive bool) Assertion {
	return func(resp *transport.Response) Outcome {
		o := CheckContains(string(resp.RawBody), needle, caseInsensitive)
		o.Heuristic = false
		if !o.OK {
			o.Detail = "response body does not contain " + strconv.Quote(needle) + bodySuffix(resp)
		}
		return o
	}
}
