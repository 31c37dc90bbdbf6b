package devserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// @Summary      List the user's videos
// @Tags         video
// @Produce      json
// @Success      200  {object}  videosResponse
// @Router       /api/video/ [get]
func (s *Server) handleVideos(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, videosResponse{Videos: s.videos.List(userID)})
}

// @Summary      Create a video project
// @Tags         video
// @Accept       json
// @Produce      json
// @Param        body  body      videoCreateRequest  true  "Project"
// @Success      201   {object}  videoResponse
// @Router       /api/video/ [post]
func (s *Server) handleCreateVideo(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req videoCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	video := s.videos.Create(userID, domain.VideoInput{
		Title:       req.Title,
		Description: req.Description,
		Prompt:      req.Prompt,
	})
	return c.JSON(http.StatusCreated, videoResponse{Video: video})
}

// @Summary      Get a video project
// @Tags         video
// @Produce      json
// @Success      200  {object}  videoResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/video/{id} [get]
func (s *Server) handleVideo(c echo.Context) error {
	userID, id, err := videoParams(c)
	if err != nil {
		return err
	}

	video, err := s.videos.Get(userID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, videoResponse{Video: video})
}

// GenerateVideo queues the render. Progress is observed via the status
// endpoint.
//
// @Summary      Queue a video render
// @Tags         video
// @Success      202  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/video/{id}/generate [post]
func (s *Server) handleGenerateVideo(c echo.Context) error {
	userID, id, err := videoParams(c)
	if err != nil {
		return err
	}

	video, err := s.videos.Get(userID, id)
	if err != nil {
		return err
	}
	if video.Status != domain.VideoPending {
		return domain.ErrInvalidTransition
	}

	s.queue.Enqueue(id)
	return c.JSON(http.StatusAccepted, messageResponse{Message: "render queued"})
}

// @Summary      Poll render status
// @Tags         video
// @Produce      json
// @Success      200  {object}  videoResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/video/{id}/status [get]
func (s *Server) handleVideoStatus(c echo.Context) error {
	userID, id, err := videoParams(c)
	if err != nil {
		return err
	}

	video, err := s.videos.Get(userID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, videoResponse{Video: video})
}

// @Summary      Delete a video project
// @Tags         video
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/video/{id} [delete]
func (s *Server) handleDeleteVideo(c echo.Context) error {
	userID, id, err := videoParams(c)
	if err != nil {
		return err
	}

	if err := s.videos.Delete(userID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "video deleted"})
}

func videoParams(c echo.Context) (userID, videoID int, err error) {
	userID, err = ctxUserID(c)
	if err != nil {
		return 0, 0, err
	}

	videoID, err = strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid video id")
	}
	return userID, videoID, nil
}
