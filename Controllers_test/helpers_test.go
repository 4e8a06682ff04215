package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
)

// Zona resto untuk test yang butuh jam lokal deterministik.
var testZone = time.FixedZone("WIB", 7*60*60)

// doRequest menjalankan satu request JSON terhadap router test.
func doRequest(router *gin.Engine, method, url string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	body := bytes.NewBuffer(nil)
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			panic(err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody membongkar amplop JSON {success, message, data}.
func decodeBody(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		panic(err)
	}
	return resp
}

func dataObject(w *httptest.ResponseRecorder) map[string]interface{} {
	data, ok := decodeBody(w)["data"].(map[string]interface{})
	if !ok {
		panic("response data is not an object")
	}
	return data
}

func dataArray(w *httptest.ResponseRecorder) []interface{} {
	data, ok := decodeBody(w)["data"].([]interface{})
	if !ok {
		panic("response data is not an array")
	}
	return data
}
