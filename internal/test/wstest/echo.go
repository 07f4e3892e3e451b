// Package wstest hosts a gorilla/websocket echo server and opens raw
// framed connections to it so the codec can be checked against a
// second implementation.
package wstest

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// GorillaEcho starts a server upgrading GET /echo with gorilla/websocket
// and echoing every message back with the same type.
// The server is closed with the test.
func GorillaEcho(t testing.TB) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	upgrader := websocket.Upgrader{}
	r.GET("/echo", func(ginCtx *gin.Context) {
		c, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
		if err != nil {
			t.Error(err)
			return
		}
		defer c.Close()

		for {
			typ, p, err := c.ReadMessage()
			if err != nil {
				return
			}
			err = c.WriteMessage(typ, p)
			if err != nil {
				return
			}
		}
	})

	s := httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}
