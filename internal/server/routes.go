package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/multicall/internal/auth"
	"github.com/danmuck/multicall/internal/multicall"
	"github.com/danmuck/multicall/internal/observability"
	"github.com/danmuck/multicall/internal/protocol/frame"
)

// HeaderGasUsed carries the gas an invocation consumed.
const HeaderGasUsed = "X-Gas-Used"

type selectorInfo struct {
	Selector string `json:"selector"`
	Method   string `json:"method"`
}

func (g *Gateway) RegisterRoutes() {
	r := g.engine
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(g.Appeared).String(),
			"service": g.ID,
			"version": "0.1.0",
		})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"targets": g.host.Registry().Len(),
			"service": g.ID,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.GET("/selectors", func(c *gin.Context) {
		routes := g.router.Routes()
		list := make([]selectorInfo, 0, len(routes))
		for _, rt := range routes {
			list = append(list, selectorInfo{Selector: rt.Selector.String(), Method: rt.Method})
		}
		c.JSON(http.StatusOK, gin.H{"selectors": list})
	})

	v1.GET("/targets", func(c *gin.Context) {
		addrs := g.host.Registry().Addresses()
		list := make([]string, 0, len(addrs))
		for _, a := range addrs {
			list = append(list, a.String())
		}
		c.JSON(http.StatusOK, gin.H{"targets": list})
	})

	execute := []gin.HandlerFunc{}
	if g.auth != nil {
		execute = append(execute, auth.Require(g.auth))
	}
	execute = append(execute, func(c *gin.Context) {
		env, err := frame.Read(c.Request.Body, g.limits)
		if err != nil {
			g.fail(c, err)
			return
		}
		receipt, err := g.Execute(c.Request.Context(), env)
		c.Header(HeaderGasUsed, strconv.FormatUint(receipt.GasUsed, 10))
		if err != nil {
			g.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "application/octet-stream", receipt.Output)
	})
	v1.POST("/execute", execute...)
}

func (g *Gateway) fail(c *gin.Context, err error) {
	kind := multicall.Kind(err)
	c.Set(observability.ErrorKindKey, kind)
	c.JSON(statusFor(kind), gin.H{"error": err.Error(), "kind": kind})
}
