package integration

import (
	"bytes"
	"net/http"
	"testing"
)

func TestIntegration_RequestValidation(t *testing.T) {
	u := baseURL(t)
	waitReady(t, u)

	cases := []struct {
		name, path, body, ctype string
		want                    int
	}{
		{"empty_messages", "/", `{"messages":""}`, "application/json", http.StatusBadRequest},
		{"unknown_field", "/", `{"messages":"hi","extra":1}`, "application/json", http.StatusBadRequest},
		{"malformed_json", "/", `{"messages":`, "application/json", http.StatusBadRequest},
		{"wrong_media_type", "/", `{"messages":"hi"}`, "text/plain", http.StatusUnsupportedMediaType},
		{"edit_no_target", "/edit", `{"messages":"update stock to 10"}`, "application/json", http.StatusBadRequest},
		{"edit_unknown_product", "/edit", `{"messages":"Update product 99999 stock to 10"}`, "application/json", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodPost, u+tc.path, bytes.NewBufferString(tc.body))
			r.Header.Set("Content-Type", tc.ctype)
			resp, err := http.DefaultClient.Do(r)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
			}
		})
	}
}
