package endpoint

import (
	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
)

// ListServices returns services. Anonymous and patient callers only see
// active ones.
// GET /services
func ListServices(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	q := parseQueryParams(c)
	if q.SortDir == "" {
		q.SortDir = "asc"
	}
	query := q.apply(db, "name")
	if !callerRole(c).IsBackOffice() {
		query = query.Where("is_active = ?", true)
	}
	if q.Keyword != "" {
		kw := likeKeyword(q.Keyword)
		query = query.Where("name LIKE ? OR description LIKE ?", kw, kw)
	}

	services := []model.Service{}
	if err := query.Find(&services).Error; err != nil {
		util.CallServerError(c, "Failed to retrieve services", err)
		return
	}
	util.CallSuccessOK(c, services)
}

// GetService returns one service.
// GET /services/:id
func GetService(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var svc model.Service
	if !findOrRespond(c, db, &svc, "Service") {
		return
	}
	util.CallSuccessOK(c, svc)
}

// CreateService adds a service; it is active unless isActive is false.
// POST /services
func CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	svc := model.Service{
		Name:        util.NormalizeName(req.Name),
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		IsActive:    true,
		Features:    req.Features,
	}
	if !createOrRespond(c, db, &svc, "Service") {
		return
	}
	// A false default would be dropped by gorm on insert.
	if req.IsActive != nil && !*req.IsActive {
		if err := db.Model(&svc).Update("is_active", false).Error; err != nil {
			util.CallServerError(c, "Failed to create service", err)
			return
		}
		svc.IsActive = false
	}
	util.CallCreated(c, svc)
}

// UpdateService applies a partial update.
// PATCH /services/:id
func UpdateService(c *gin.Context) {
	var p model.ServicePatch
	if !bindJSONOrRespond(c, &p) {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var svc model.Service
	if !findOrRespond(c, db, &svc, "Service") {
		return
	}
	if p.Duration != nil && *p.Duration <= 0 {
		util.CallUserError(c, "duration must be at least 1")
		return
	}

	set(&svc.Name, p.Name)
	set(&svc.Description, p.Description)
	set(&svc.Duration, p.Duration)
	set(&svc.IsActive, p.IsActive)
	set(&svc.Features, p.Features)
	if p.Price != nil {
		svc.Price = p.Price
	}

	if !saveOrRespond(c, db, &svc, "Service") {
		return
	}
	util.CallSuccessOK(c, svc)
}

// DeleteService removes a service.
// DELETE /services/:id
func DeleteService(c *gin.Context) {
	deleteByID(c, &model.Service{}, "Service")
}
