package client

import (
	"io"
	"net/http"

	"golang.org/x/net/html/charset"
)

// readUTF8 drains the response body and converts it to UTF-8. The encoding is taken from
// the Content-Type header first, then from <meta> tags, BOMs and content sniffing.
func readUTF8(resp *http.Response) (string, error) {
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
