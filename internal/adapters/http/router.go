package http

import (
	"context"
	"net/http"

	"github.com/dkeye/coderoom/internal/adapters/signal"
	"github.com/dkeye/coderoom/internal/config"
	"github.com/dkeye/coderoom/internal/core"
	"github.com/dkeye/coderoom/internal/domain"
	"github.com/dkeye/coderoom/internal/exec"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const profileNameKey = "display_name"

// Inspector exposes read-only views for the HTTP API.
type Inspector interface {
	Rooms(ctx context.Context) ([]core.RoomInfo, error)
	QueueStatus() exec.QueueStatus
}

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

type profileRequest struct {
	Username string `json:"username" binding:"required,max=36"`
}

func SetupRouter(ctx context.Context, cfg *config.Config, insp Inspector, ws *signal.SignalWSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("CodeRoomSessions", store))
	r.Use(ClientTokenMiddleware())

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws endpoint hit")
		ws.HandleSignal(ctx, c)
	})

	api.GET("/rooms", func(c *gin.Context) {
		rooms, err := insp.Rooms(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("list rooms")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rooms": rooms})
	})

	api.GET("/queue", func(c *gin.Context) {
		c.JSON(http.StatusOK, insp.QueueStatus())
	})

	api.GET("/languages", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"languages": exec.Languages()})
	})

	api.GET("/profile", func(c *gin.Context) {
		sess := sessions.Default(c)
		name, _ := sess.Get(profileNameKey).(string)
		c.JSON(http.StatusOK, gin.H{"username": name})
	})

	api.POST("/profile", func(c *gin.Context) {
		var req profileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name, err := domain.NormalizeDisplayName(req.Username)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess := sessions.Default(c)
		sess.Set(profileNameKey, name)
		if err := sess.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": name})
	})

	return r
}
