package question

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the board-scoped question endpoints. Write endpoints
// run behind writeGuards (rate limiting).
func RegisterRoutes(rg *gin.RouterGroup, handler Handler, writeGuards ...gin.HandlerFunc) {
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(writeGuards)+1)
		return append(append(chain, writeGuards...), h)
	}

	questions := rg.Group("/:board/questions")
	{
		questions.GET("", handler.ListQuestions)
		questions.GET("/:id", handler.GetQuestion)
		questions.POST("", guarded(handler.CreateQuestion)...)
		questions.POST("/:id/vote", guarded(handler.VoteQuestion)...)
	}
}
