package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
)

var nonDigitRegex = regexp.MustCompile(`[^0-9]+`)

func StrPtr(s string) *string {
	return &s
}

// DigitsOnly parses the digits of s as a number, ignoring everything else
// ("1 500 ₸" -> 1500). Strings without digits parse as 0.
func DigitsOnly(s string) (int64, error) {
	digits := nonDigitRegex.ReplaceAllString(s, "")
	if digits == "" {
		return 0, nil
	}
	return strconv.ParseInt(digits, 10, 64)
}

func WriteJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]string{"error": message})
}
