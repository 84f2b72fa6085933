package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkhive/api/dto"
	"linkhive/contentproc"
	"linkhive/logger"
	"linkhive/repositories"
	"linkhive/services"
)

// ListTagsHandler godoc
// @Summary      List the tag vocabulary
// @Tags         tags
// @Produce      json
// @Success      200  {array}   dto.TagDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /tags [get]
func ListTagsHandler(tags *repositories.TagRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := tags.List(c.Request.Context())
		if err != nil {
			logger.Log.Errorf("failed to list tags: %v", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_list_tags"})
			return
		}
		out := make([]dto.TagDTO, 0, len(rows))
		for i := range rows {
			out = append(out, dto.FromTag(&rows[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// MigrateVocabularyHandler godoc
// @Summary      Normalize the whole tag vocabulary
// @Description  Renames every tag to its normalized form and merges duplicates. Runs in one transaction.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.MigrationReportDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /admin/tags/migrate [post]
func MigrateVocabularyHandler(vocab *services.VocabularyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := vocab.MigrateVocabulary(c.Request.Context())
		if err != nil {
			logger.Log.Errorf("vocabulary migration failed: %v", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "migration_failed"})
			return
		}
		c.JSON(http.StatusOK, dto.MigrationReportDTO{
			Scanned:  report.Scanned,
			Renamed:  report.Renamed,
			Merged:   report.Merged,
			Skipped:  report.Skipped,
			Survived: report.Survived,
		})
	}
}

var promptSettingKeys = map[string]string{
	"insights": contentproc.SettingKeyInsightsPrompt,
	"tags":     contentproc.SettingKeyTagsPrompt,
	"summary":  contentproc.SettingKeySummaryPrompt,
}

// UpdatePromptHandler godoc
// @Summary      Update an analysis prompt
// @Description  Overrides the default system prompt used by the analysis pipeline.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        name    path  string                   true  "insights | tags | summary"
// @Param        prompt  body  dto.UpdatePromptRequest  true  "New prompt text"
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /admin/prompts/{name} [put]
func UpdatePromptHandler(settings *repositories.SettingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := promptSettingKeys[c.Param("name")]
		if !ok {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "unknown_prompt_name"})
			return
		}

		var req dto.UpdatePromptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request_body"})
			return
		}

		if err := settings.Set(c.Request.Context(), key, req.Prompt); err != nil {
			logger.Log.Errorf("failed to update prompt %s: %v", key, err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_update_prompt"})
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "prompt_updated"})
	}
}
