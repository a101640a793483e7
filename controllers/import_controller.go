package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"finboard/backend/apperrors"
	"finboard/backend/config"
	"finboard/backend/importer"
	"finboard/backend/middlewares"
	"finboard/backend/models"
	"finboard/backend/store"

	"github.com/gin-gonic/gin"
)

const maxImportBytes = 10 << 20

func invalidFile(detail string) error {
	return invalidField("Invalid import file", "file", detail)
}

// ImportTransactions accepts a .csv or .xlsx statement (multipart field
// "file") and creates one transaction per usable row. Rows the importer or
// the validator reject are returned in skipped. The usable rows are stored
// as one batch, so a failed upload leaves nothing behind and can be retried.
func ImportTransactions(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			respondError(c, invalidFile("missing file (field 'file')"), "Failed to import transactions")
			return
		}
		defer file.Close()

		buf, err := io.ReadAll(io.LimitReader(file, maxImportBytes+1))
		if err != nil {
			respondError(c, invalidFile("failed to read file"), "Failed to import transactions")
			return
		}
		if len(buf) > maxImportBytes {
			respondError(c, invalidFile("file is larger than 10 MB"), "Failed to import transactions")
			return
		}

		defaultType := models.TransactionType(strings.TrimSpace(c.PostForm("type")))
		if defaultType != "" && !defaultType.Valid() {
			respondError(c, apperrors.Invalid("type", "must be one of: income expense"), "Failed to import transactions")
			return
		}

		res, err := importer.Parse(buf, header.Filename, defaultType)
		if err != nil {
			if errors.Is(err, importer.ErrUnsupportedFormat) || errors.Is(err, importer.ErrNoAmountColumn) || errors.Is(err, importer.ErrEmptyFile) {
				respondError(c, invalidFile(err.Error()), "Failed to import transactions")
				return
			}
			respondError(c, invalidFile("could not read spreadsheet: "+err.Error()), "Failed to import transactions")
			return
		}

		inputs := make([]models.TransactionInput, 0, len(res.Rows))
		skipped := res.Skipped
		for _, row := range res.Rows {
			in := row.Input
			in.Normalize()
			if err := in.Validate(); err != nil {
				skipped = append(skipped, importer.Skipped{Row: row.Line, Reason: err.Error()})
				continue
			}
			inputs = append(inputs, in)
		}

		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		created, err := s.CreateTransactions(ctx, middlewares.UserID(c), inputs)
		if err != nil {
			respondError(c, err, "Failed to import transactions")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"imported":     len(created),
			"transactions": created,
			"skipped":      skipped,
			"columns":      res.Columns,
		})
	}
}
