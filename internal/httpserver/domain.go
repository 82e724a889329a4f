package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	conversationHTTP "value-added-framework/internal/conversation/delivery/http"
	conversationUC "value-added-framework/internal/conversation/usecase"
	"value-added-framework/internal/profile"
	profileHTTP "value-added-framework/internal/profile/delivery/http"
	profileUC "value-added-framework/internal/profile/usecase"
)

// setupProfileDomain registers /api/v1/profiles and returns the use case for other domains.
func (srv HTTPServer) setupProfileDomain(ctx context.Context, api *gin.RouterGroup) profile.UseCase {
	uc := profileUC.New(srv.store, srv.l)

	h := profileHTTP.New(srv.l, uc)
	profileHTTP.RegisterRoutes(api, h)

	srv.l.Infof(ctx, "Profile domain registered")
	return uc
}

// setupConversationDomain registers /api/v1/sessions.
func (srv HTTPServer) setupConversationDomain(ctx context.Context, api *gin.RouterGroup, profiles profile.UseCase) error {
	uc := conversationUC.New(srv.l, srv.store, profiles, srv.gateway, srv.timer, srv.conversation)

	h := conversationHTTP.New(srv.l, uc)
	conversationHTTP.RegisterRoutes(api, h)

	srv.l.Infof(ctx, "Conversation domain registered")
	return nil
}
