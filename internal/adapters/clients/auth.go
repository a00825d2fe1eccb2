package clients

import "net/http"

// TokenAuth returns an AuthFunc that sends "Authorization: Token {token}",
// the scheme the quote service's REST framework expects.
func TokenAuth(token string) func(*http.Request) {
	value := "Token " + token

	return func(req *http.Request) {
		req.Header.Set("Authorization", value)
	}
}
