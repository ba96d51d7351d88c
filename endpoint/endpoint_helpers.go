package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ariebrainware/psych-practice/middleware"
	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type listQuery struct {
	Limit   int
	Offset  int
	Keyword string
	SortDir string
}

func parseQueryParams(c *gin.Context) listQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return listQuery{
		Limit:   limit,
		Offset:  offset,
		Keyword: strings.TrimSpace(c.Query("keyword")),
		SortDir: strings.ToLower(c.Query("sort_dir")),
	}
}

// apply adds paging and ordering on column. Keyword filtering is left to the caller.
func (q listQuery) apply(db *gorm.DB, column string) *gorm.DB {
	dir := "DESC"
	if q.SortDir == "asc" {
		dir = "ASC"
	}
	db = db.Order(fmt.Sprintf("%s %s", column, dir))
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	return db
}

func likeKeyword(kw string) string {
	return "%" + kw + "%"
}

func bindJSONOrRespond(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallValidationError(c, err)
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, "Database connection not available", fmt.Errorf("db is nil"))
		return nil, false
	}
	return db, true
}

// findOrRespond loads the record with the :id path parameter into dst.
// name is used in the 404 message, e.g. "Service not found".
func findOrRespond(c *gin.Context, db *gorm.DB, dst interface{}, name string) bool {
	id := c.Param("id")
	err := db.Where("id = ?", id).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.CallErrorNotFound(c, name+" not found")
		return false
	}
	if err != nil {
		util.CallServerError(c, "Failed to load "+strings.ToLower(name), err)
		return false
	}
	return true
}

func saveOrRespond(c *gin.Context, db *gorm.DB, record interface{}, name string) bool {
	if err := db.Save(record).Error; err != nil {
		util.CallServerError(c, "Failed to update "+strings.ToLower(name), err)
		return false
	}
	return true
}

func createOrRespond(c *gin.Context, db *gorm.DB, record interface{}, name string) bool {
	if err := db.Create(record).Error; err != nil {
		util.CallServerError(c, "Failed to create "+strings.ToLower(name), err)
		return false
	}
	return true
}

// deleteByID removes the record with the :id path parameter and answers with
// an empty 200, or 404 when nothing matched.
func deleteByID(c *gin.Context, record interface{}, name string) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	res := db.Where("id = ?", c.Param("id")).Delete(record)
	if res.Error != nil {
		util.CallServerError(c, "Failed to delete "+strings.ToLower(name), res.Error)
		return
	}
	if res.RowsAffected == 0 {
		util.CallErrorNotFound(c, name+" not found")
		return
	}
	c.Status(http.StatusOK)
}

// isSelfOrBackOffice reports whether the caller is userID or back-office staff.
func isSelfOrBackOffice(c *gin.Context, userID string) bool {
	if role, ok := middleware.GetRole(c); ok && role.IsBackOffice() {
		return true
	}
	id, ok := middleware.GetUserID(c)
	return ok && id == userID
}

func callerRole(c *gin.Context) model.Role {
	role, _ := middleware.GetRole(c)
	return role
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
