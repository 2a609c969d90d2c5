package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voxalign/config"
	"github.com/kbukum/voxalign/engine"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/util"
	"github.com/kbukum/voxalign/version"
)

// Register mounts every voxalign route on r:
//
//	GET  /health
//	GET  /version
//	POST /v1/diagnose
//	POST /v1/attribute
func Register(r gin.IRouter, eng *engine.Engine, log *logger.Logger) {
	name := util.Coalesce(eng.Settings().Name, config.ServiceName)
	r.GET("/health", Health(name, version.Get().Short(), eng.HealthCheckers()...))
	r.GET("/version", Version())

	attr := NewAttribution(eng, log)
	v1 := r.Group("/v1")
	v1.POST("/diagnose", attr.Diagnose)
	v1.POST("/attribute", attr.Attribute)
}
