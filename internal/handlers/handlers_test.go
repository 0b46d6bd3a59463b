package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/tracker-platform/internal/config"
	"github.com/taskhive/tracker-platform/internal/database"
	"github.com/taskhive/tracker-platform/internal/middleware"
	"github.com/taskhive/tracker-platform/internal/models"
	"github.com/taskhive/tracker-platform/internal/routes"
	"github.com/taskhive/tracker-platform/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *config.Config, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Employee{},
		&models.Project{},
		&models.Task{},
		&models.ProjectMembership{},
		&models.TaskAssignment{},
	))
	database.DB = db

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		SessionMaxAge:  24,
		FrontendOrigin: "http://localhost:3000",
		AppName:        "TrackerTest",
	}
	return routes.SetupRouter(cfg), cfg, db
}

func createEmployee(t *testing.T, db *gorm.DB, name string, role models.Role) models.Employee {
	t.Helper()
	employee := models.Employee{
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
	}
	require.NoError(t, db.Create(&employee).Error)
	return employee
}

func sessionCookie(t *testing.T, cfg *config.Config, employee models.Employee) *http.Cookie {
	t.Helper()
	token, err := services.NewAuthService(cfg).IssueToken(&employee)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/projects", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestForbiddenRolePerformsNoMutation(t *testing.T) {
	router, cfg, db := setupRouter(t)
	member := createEmployee(t, db, "carol", models.RoleMember)

	body := gin.H{"name": "Apollo"}
	w := doJSON(t, router, http.MethodPost, "/projects", body, sessionCookie(t, cfg, member))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateProjectWithRoster(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	manager := createEmployee(t, db, "bob", models.RoleManager)
	member := createEmployee(t, db, "carol", models.RoleMember)

	body := gin.H{
		"name":         "Apollo",
		"description":  "Lunar program",
		"manager_ids":  []uint{manager.ID},
		"employee_ids": []uint{member.ID},
	}
	w := doJSON(t, router, http.MethodPost, "/projects", body, sessionCookie(t, cfg, admin))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Project models.ProjectResponse `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, admin.ID, resp.Project.OwnerID)
	assert.Equal(t, "alice", resp.Project.OwnerName)
	assert.Equal(t, models.ProjectStatusInProgress, resp.Project.Status)
	require.Len(t, resp.Project.Managers, 1)
	assert.Equal(t, manager.ID, resp.Project.Managers[0].ID)
	require.Len(t, resp.Project.Members, 1)
	assert.Equal(t, member.ID, resp.Project.Members[0].ID)
}

func TestCreateProjectUnknownManagerRollsBack(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	member := createEmployee(t, db, "carol", models.RoleMember)

	// A member id in the manager list fails validation; the project row
	// created earlier in the transaction must roll back with it.
	body := gin.H{
		"name":        "Apollo",
		"manager_ids": []uint{member.ID},
	}
	w := doJSON(t, router, http.MethodPost, "/projects", body, sessionCookie(t, cfg, admin))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateProjectUnknownManagerKeepsRoster(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	manager := createEmployee(t, db, "bob", models.RoleManager)
	member := createEmployee(t, db, "carol", models.RoleMember)

	project := models.Project{Name: "Apollo", OwnerID: admin.ID, Status: models.ProjectStatusInProgress}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Create(&models.ProjectMembership{ProjectID: project.ID, EmployeeID: manager.ID}).Error)

	body := gin.H{
		"name":        "Apollo",
		"manager_ids": []uint{member.ID},
	}
	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/projects/%d", project.ID), body, sessionCookie(t, cfg, admin))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.ProjectMembership{}).Where("project_id = ?", project.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMemberCannotViewProjectButCanViewOwnTasks(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	member := createEmployee(t, db, "carol", models.RoleMember)

	project := models.Project{Name: "Apollo", OwnerID: admin.ID}
	require.NoError(t, db.Create(&project).Error)
	task := models.Task{Name: "Design", OwnerID: admin.ID, ProjectID: project.ID, Status: models.TaskStatusNew}
	require.NoError(t, db.Create(&task).Error)
	require.NoError(t, db.Create(&models.TaskAssignment{TaskID: task.ID, EmployeeID: member.ID}).Error)

	cookie := sessionCookie(t, cfg, member)

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/projects/%d", project.ID), nil, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Self-access exception: the same member may list their own tasks in
	// the project.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/projects/%d/employees/%d/tasks", project.ID, member.ID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Tasks []models.Task `json:"tasks"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, task.ID, resp.Tasks[0].ID)

	// But not another employee's tasks.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/projects/%d/employees/%d/tasks", project.ID, admin.ID), nil, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChangeRoleSelfRejected(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)

	body := gin.H{"employee_id": admin.ID, "role": models.RoleMember}
	w := doJSON(t, router, http.MethodPut, "/change-role", body, sessionCookie(t, cfg, admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot change your own role")

	var reloaded models.Employee
	require.NoError(t, db.First(&reloaded, "employee_id = ?", admin.ID).Error)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)
}

func TestChangeRoleDemotionCascades(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	manager := createEmployee(t, db, "bob", models.RoleManager)
	other := createEmployee(t, db, "erin", models.RoleManager)

	project := models.Project{Name: "Apollo", OwnerID: admin.ID}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Create(&models.ProjectMembership{ProjectID: project.ID, EmployeeID: manager.ID}).Error)
	require.NoError(t, db.Create(&models.ProjectMembership{ProjectID: project.ID, EmployeeID: other.ID}).Error)

	body := gin.H{"employee_id": manager.ID, "role": models.RoleMember}
	w := doJSON(t, router, http.MethodPut, "/change-role", body, sessionCookie(t, cfg, admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.Employee
	require.NoError(t, db.First(&reloaded, "employee_id = ?", manager.ID).Error)
	assert.Equal(t, models.RoleMember, reloaded.Role)

	var count int64
	require.NoError(t, db.Model(&models.ProjectMembership{}).Where("employee_id = ?", manager.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.ProjectMembership{}).Where("employee_id = ?", other.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestChangeRoleUnknownValueRejected(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	member := createEmployee(t, db, "carol", models.RoleMember)

	body := gin.H{"employee_id": member.ID, "role": "supervisor"}
	w := doJSON(t, router, http.MethodPut, "/change-role", body, sessionCookie(t, cfg, admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusRequiresAssignment(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	assigned := createEmployee(t, db, "carol", models.RoleMember)
	unassigned := createEmployee(t, db, "dave", models.RoleMember)

	project := models.Project{Name: "Apollo", OwnerID: admin.ID}
	require.NoError(t, db.Create(&project).Error)
	task := models.Task{Name: "Design", OwnerID: admin.ID, ProjectID: project.ID, Status: models.TaskStatusNew}
	require.NoError(t, db.Create(&task).Error)
	require.NoError(t, db.Create(&models.TaskAssignment{TaskID: task.ID, EmployeeID: assigned.ID}).Error)

	body := gin.H{"task_id": task.ID, "status": models.TaskStatusInProgress}

	w := doJSON(t, router, http.MethodPut, "/tasks/update-status", body, sessionCookie(t, cfg, unassigned))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPut, "/tasks/update-status", body, sessionCookie(t, cfg, assigned))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.Task
	require.NoError(t, db.First(&reloaded, "task_id = ?", task.ID).Error)
	assert.Equal(t, models.TaskStatusInProgress, reloaded.Status)
}

func TestMarkCompleteByManager(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	manager := createEmployee(t, db, "bob", models.RoleManager)

	project := models.Project{Name: "Apollo", OwnerID: admin.ID, Status: models.ProjectStatusInProgress}
	require.NoError(t, db.Create(&project).Error)

	body := gin.H{"project_id": project.ID}
	w := doJSON(t, router, http.MethodPost, "/projects/mark-complete", body, sessionCookie(t, cfg, manager))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.Project
	require.NoError(t, db.First(&reloaded, "project_id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectStatusCompleted, reloaded.Status)
}

func TestDeleteProjectCascadesOverHTTP(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	member := createEmployee(t, db, "carol", models.RoleMember)

	project := models.Project{Name: "Apollo", OwnerID: admin.ID}
	require.NoError(t, db.Create(&project).Error)
	task := models.Task{Name: "Design", OwnerID: admin.ID, ProjectID: project.ID}
	require.NoError(t, db.Create(&task).Error)
	require.NoError(t, db.Create(&models.ProjectMembership{ProjectID: project.ID, EmployeeID: member.ID}).Error)
	require.NoError(t, db.Create(&models.TaskAssignment{TaskID: task.ID, EmployeeID: member.ID}).Error)

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/projects/%d", project.ID), nil, sessionCookie(t, cfg, admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, model := range []any{&models.Project{}, &models.Task{}, &models.ProjectMembership{}, &models.TaskAssignment{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	}
}

func TestGetEmployeeProjectsSelfAccess(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	member := createEmployee(t, db, "carol", models.RoleMember)
	outsider := createEmployee(t, db, "dave", models.RoleMember)

	project := models.Project{Name: "Apollo", OwnerID: admin.ID}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Create(&models.ProjectMembership{ProjectID: project.ID, EmployeeID: member.ID}).Error)

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/employees/%d/projects", member.ID), nil, sessionCookie(t, cfg, member))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Projects []models.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, project.ID, resp.Projects[0].ID)

	// Another member may not browse someone else's projects.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/employees/%d/projects", member.ID), nil, sessionCookie(t, cfg, outsider))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)

	w := doJSON(t, router, http.MethodPost, "/logout", nil, sessionCookie(t, cfg, admin))
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	var cleared bool
	for _, c := range cookies {
		if c.Name == middleware.SessionCookie {
			cleared = c.Value == "" && c.MaxAge < 0
		}
	}
	assert.True(t, cleared, "session cookie should be emptied and expired")
}

func TestGetUserDetails(t *testing.T) {
	router, cfg, db := setupRouter(t)
	manager := createEmployee(t, db, "bob", models.RoleManager)

	w := doJSON(t, router, http.MethodGet, "/get-userdetails", nil, sessionCookie(t, cfg, manager))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User models.Employee `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, manager.ID, resp.User.ID)
	assert.Equal(t, models.RoleManager, resp.User.Role)
}

func TestCreateEmployeeValidation(t *testing.T) {
	router, cfg, db := setupRouter(t)
	admin := createEmployee(t, db, "alice", models.RoleAdmin)
	cookie := sessionCookie(t, cfg, admin)

	w := doJSON(t, router, http.MethodPost, "/employees", gin.H{
		"name": "Frank", "email": "frank@example.com", "role": "supervisor",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/employees", gin.H{
		"name": "Frank", "email": "frank@example.com", "role": "member",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate email is rejected up front.
	w = doJSON(t, router, http.MethodPost, "/employees", gin.H{
		"name": "Frank Again", "email": "frank@example.com", "role": "member",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEndpointsRoleScoping(t *testing.T) {
	router, cfg, db := setupRouter(t)
	createEmployee(t, db, "alice", models.RoleAdmin)
	manager := createEmployee(t, db, "bob", models.RoleManager)
	createEmployee(t, db, "carol", models.RoleMember)

	cookie := sessionCookie(t, cfg, manager)

	// Managers can list members but not managers.
	w := doJSON(t, router, http.MethodGet, "/members", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Employees []models.Employee `json:"employees"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Employees, 1)
	assert.Equal(t, models.RoleMember, resp.Employees[0].Role)

	w = doJSON(t, router, http.MethodGet, "/managers", nil, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
