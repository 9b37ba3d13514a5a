package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/yigit/taxiservice/internal/app/controllers"
	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/repositories/memory"
	"github.com/yigit/taxiservice/internal/bootstrap"
	"github.com/yigit/taxiservice/internal/config"
	"github.com/yigit/taxiservice/internal/pkg/logger"
	"github.com/yigit/taxiservice/internal/pkg/websocket"
)

type apiEnvelope struct {
	Success bool                       `json:"success"`
	Data    map[string]json.RawMessage `json:"data"`
}

type ControllersTestSuite struct {
	suite.Suite
	deps   *bootstrap.Dependencies
	router *gin.Engine
	driver *models.Driver
	cookie *http.Cookie
	logs   *bytes.Buffer
}

func TestControllersTestSuite(t *testing.T) {
	suite.Run(t, new(ControllersTestSuite))
}

func (s *ControllersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.logs = &bytes.Buffer{}
	logger.Configure(logger.Config{Level: logger.ErrorLevel, Output: s.logs})

	cfg := config.Default()
	cfg.Database.Driver = config.DriverMemory
	cfg.Session.Secret = "test-secret"

	deps, err := bootstrap.BuildDependencies(cfg, memory.NewRepositories(), nil, zerolog.Nop())
	s.Require().NoError(err)
	router, err := bootstrap.SetupRouter(cfg, deps, zerolog.Nop())
	s.Require().NoError(err)
	s.deps = deps
	s.router = router

	s.driver, err = deps.Services.Drivers.Register(s.ctx(), "test", "test12345", "", "", "")
	s.Require().NoError(err)
	token, _, err := deps.JWTService.IssueSession(s.driver.ID, s.driver.Username)
	s.Require().NoError(err)
	s.cookie = &http.Cookie{Name: cfg.Session.CookieName, Value: token}
}

func (s *ControllersTestSuite) ctx() context.Context {
	return context.Background()
}

func (s *ControllersTestSuite) do(method, path string, form url.Values, wantJSON bool, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if wantJSON {
		req.Header.Set("Accept", "application/json")
	} else {
		req.Header.Set("Accept", "text/html")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ControllersTestSuite) get(path string) *httptest.ResponseRecorder {
	return s.do(http.MethodGet, path, nil, false, s.cookie)
}

func (s *ControllersTestSuite) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return s.do(http.MethodPost, path, form, false, s.cookie)
}

func (s *ControllersTestSuite) getJSON(path string) map[string]json.RawMessage {
	rec := s.do(http.MethodGet, path, nil, true, s.cookie)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var envelope apiEnvelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &envelope))
	s.Require().True(envelope.Success)
	return envelope.Data
}

func (s *ControllersTestSuite) decode(raw json.RawMessage, v interface{}) {
	s.Require().NoError(json.Unmarshal(raw, v))
}

func (s *ControllersTestSuite) createManufacturer(name, country string) *models.Manufacturer {
	m, err := s.deps.Services.Manufacturers.Create(s.ctx(), dto.ManufacturerRequest{Name: name, Country: country})
	s.Require().NoError(err)
	return m
}

func (s *ControllersTestSuite) createCar(model string, manufacturerID int64) *models.Car {
	car, err := s.deps.Services.Cars.Create(s.ctx(), dto.CarRequest{Model: model, Manufacturer: fmt.Sprint(manufacturerID)})
	s.Require().NoError(err)
	return car
}

func (s *ControllersTestSuite) TestLoginRequired() {
	for _, path := range []string{"/", "/manufacturers/", "/cars/", "/drivers/", "/cars/create", "/drivers/1/"} {
		rec := s.do(http.MethodGet, path, nil, false, nil)
		s.Equal(http.StatusFound, rec.Code, path)
		s.Equal("/accounts/login/?next="+url.QueryEscape(path), rec.Header().Get("Location"), path)
	}

	rec := s.do(http.MethodGet, "/cars/", nil, true, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ControllersTestSuite) TestForgedCookieIsAnonymous() {
	rec := s.do(http.MethodGet, "/cars/", nil, false, &http.Cookie{Name: "sessionid", Value: "not-a-token"})
	s.Equal(http.StatusFound, rec.Code)
}

func (s *ControllersTestSuite) TestDeletedDriverIsAnonymous() {
	s.Require().NoError(s.deps.Services.Drivers.Delete(s.ctx(), s.driver.ID))

	rec := s.get("/cars/")
	s.Equal(http.StatusFound, rec.Code)
}

func (s *ControllersTestSuite) TestHomeCountsVisits() {
	m := s.createManufacturer("Test", "Ukraine")
	s.createCar("Model X", m.ID)

	rec := s.do(http.MethodGet, "/", nil, true, s.cookie)
	s.Require().Equal(http.StatusOK, rec.Code)

	var envelope apiEnvelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &envelope))
	s.JSONEq(`1`, string(envelope.Data["num_visits"]))
	s.JSONEq(`1`, string(envelope.Data["num_drivers"]))
	s.JSONEq(`1`, string(envelope.Data["num_cars"]))
	s.JSONEq(`1`, string(envelope.Data["num_manufacturers"]))

	var refreshed *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == s.cookie.Name {
			refreshed = c
		}
	}
	s.Require().NotNil(refreshed)
	s.True(refreshed.HttpOnly)

	rec = s.do(http.MethodGet, "/", nil, false, refreshed)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "You have visited this page 2 times.")
}

func (s *ControllersTestSuite) TestManufacturerListPagination() {
	for i := 1; i <= 6; i++ {
		s.createManufacturer(fmt.Sprintf("Test %d", i), fmt.Sprintf("Test country %d", i))
	}

	data := s.getJSON("/manufacturers/")
	var items []models.Manufacturer
	s.decode(data["manufacturer_list"], &items)
	s.Require().Len(items, 2)
	s.Equal("Test 1", items[0].Name)
	s.JSONEq(`true`, string(data["is_paginated"]))

	data = s.getJSON("/manufacturers/?page=3")
	s.decode(data["manufacturer_list"], &items)
	s.Require().Len(items, 2)
	s.Equal("Test 5", items[0].Name)

	data = s.getJSON("/manufacturers/?page=99")
	var pagination dto.PaginationInfo
	s.decode(data["page_obj"], &pagination)
	s.Equal(3, pagination.CurrentPage)

	rec := s.get("/manufacturers/?page=abc")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Page 1 of 3")
}

func (s *ControllersTestSuite) TestManufacturerCreateUpdateDelete() {
	rec := s.post("/manufacturers/create", url.Values{"name": {"Test"}, "country": {"Ukraine"}})
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/manufacturers/", rec.Header().Get("Location"))

	rec = s.post("/manufacturers/create", url.Values{"name": {""}, "country": {"Ukraine"}})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), forms.MsgRequired)

	rec = s.get("/manufacturers/1/update")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `value="Ukraine"`)

	rec = s.post("/manufacturers/1/update", url.Values{"name": {"Test"}, "country": {"Poland"}})
	s.Require().Equal(http.StatusFound, rec.Code)
	m, err := s.deps.Services.Manufacturers.Get(s.ctx(), 1)
	s.Require().NoError(err)
	s.Equal("Poland", m.Country)

	rec = s.post("/manufacturers/99/update", url.Values{"name": {"x"}, "country": {"y"}})
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.get("/manufacturers/1/delete")
	s.Equal(http.StatusOK, rec.Code)

	rec = s.post("/manufacturers/1/delete", nil)
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/manufacturers/", rec.Header().Get("Location"))

	rec = s.post("/manufacturers/1/delete", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ControllersTestSuite) TestManufacturerDeleteWithCars() {
	m := s.createManufacturer("Test", "Ukraine")
	s.createCar("Model X", m.ID)

	rec := s.do(http.MethodDelete, "/manufacturers/1/delete", nil, false, s.cookie)
	s.Require().Equal(http.StatusFound, rec.Code)

	rec = s.get("/cars/1/")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ControllersTestSuite) TestCreateCarScenario() {
	rec := s.post("/manufacturers/create", url.Values{"name": {"Test"}, "country": {"Ukraine"}})
	s.Require().Equal(http.StatusFound, rec.Code)

	rec = s.post("/cars/create", url.Values{"model": {"Model X"}, "manufacturer": {"1"}})
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/cars/", rec.Header().Get("Location"))

	rec = s.get("/cars/")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Model X")

	data := s.getJSON("/cars/")
	s.JSONEq(`false`, string(data["is_paginated"]))
	var cars []models.Car
	s.decode(data["car_list"], &cars)
	s.Require().Len(cars, 1)
	s.Equal("Model X", cars[0].Model)
}

func (s *ControllersTestSuite) TestCreateCarRejectsUnknownManufacturer() {
	rec := s.post("/cars/create", url.Values{"model": {"Model X"}, "manufacturer": {"5"}})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), forms.MsgInvalidChoice)

	data := s.getJSON("/cars/")
	var cars []models.Car
	s.decode(data["car_list"], &cars)
	s.Empty(cars)
}

func (s *ControllersTestSuite) TestCarListPaginationAndSearch() {
	for i := 1; i <= 6; i++ {
		m := s.createManufacturer(fmt.Sprintf("Test %d", i), "Ukraine")
		s.createCar(fmt.Sprintf("Model %d", i), m.ID)
	}

	data := s.getJSON("/cars/")
	var cars []models.Car
	s.decode(data["car_list"], &cars)
	s.Len(cars, 2)
	s.JSONEq(`true`, string(data["is_paginated"]))
	s.Contains(string(data["search_form"]), forms.SearchPlaceholder)

	data = s.getJSON("/cars/?model=" + url.QueryEscape("model 3"))
	s.decode(data["car_list"], &cars)
	s.Require().Len(cars, 1)
	s.Equal("Model 3", cars[0].Model)

	data = s.getJSON("/cars/?model=" + url.QueryEscape("  Model 3 "))
	s.decode(data["car_list"], &cars)
	s.Require().Len(cars, 1)
	s.Equal("Model 3", cars[0].Model)

	data = s.getJSON("/cars/?model=" + strings.Repeat("x", 201))
	s.decode(data["car_list"], &cars)
	s.Len(cars, 2)

	rec := s.get("/cars/?model=Model")
	s.Contains(rec.Body.String(), `href="?model=Model&amp;page=2"`)
}

func (s *ControllersTestSuite) TestCarDetailAndToggle() {
	m := s.createManufacturer("Test", "Ukraine")
	car := s.createCar("Model X", m.ID)
	path := fmt.Sprintf("/cars/%d/", car.ID)

	rec := s.get(path)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), controllers.LabelAssign)

	rec = s.post(path, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), controllers.LabelUnassign)

	loaded, err := s.deps.Services.Cars.Get(s.ctx(), car.ID)
	s.Require().NoError(err)
	s.True(loaded.HasDriver(s.driver.ID))

	rec = s.post(path, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), controllers.LabelAssign)

	rec = s.post("/cars/99/", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ControllersTestSuite) TestCarUpdateAndDelete() {
	m1 := s.createManufacturer("Test 1", "Ukraine")
	m2 := s.createManufacturer("Test 2", "Poland")
	car := s.createCar("Model 1", m1.ID)

	rec := s.post(fmt.Sprintf("/cars/%d/update", car.ID), url.Values{
		"model":        {"New car update"},
		"manufacturer": {fmt.Sprint(m2.ID)},
		"drivers":      {fmt.Sprint(s.driver.ID)},
	})
	s.Require().Equal(http.StatusFound, rec.Code)

	loaded, err := s.deps.Services.Cars.Get(s.ctx(), car.ID)
	s.Require().NoError(err)
	s.Equal("New car update", loaded.Model)
	s.Equal(m2.ID, loaded.ManufacturerID)
	s.True(loaded.HasDriver(s.driver.ID))

	rec = s.post(fmt.Sprintf("/cars/%d/delete", car.ID), nil)
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/cars/", rec.Header().Get("Location"))

	rec = s.get(fmt.Sprintf("/cars/%d/", car.ID))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ControllersTestSuite) TestDriverListOrderedByUsername() {
	for i := 1; i <= 6; i++ {
		_, err := s.deps.Services.Drivers.Register(s.ctx(), fmt.Sprintf("driver %d", i), "pass12345", "", "", "")
		s.Require().NoError(err)
	}

	data := s.getJSON("/drivers/")
	var drivers []models.Driver
	s.decode(data["driver_list"], &drivers)
	s.Require().Len(drivers, 2)
	s.Equal("driver 1", drivers[0].Username)
	s.Equal("driver 2", drivers[1].Username)
	s.JSONEq(`true`, string(data["is_paginated"]))
}

func (s *ControllersTestSuite) TestDriverCreateAndLicenseUpdate() {
	rec := s.post("/drivers/create", url.Values{
		"username":       {"user_test"},
		"password1":      {"user12345"},
		"password2":      {"user12345"},
		"first_name":     {"User first name"},
		"last_name":      {"User last name"},
		"license_number": {"AAA12345"},
	})
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/drivers/", rec.Header().Get("Location"))

	driver, err := s.deps.Services.Drivers.Get(s.ctx(), 2)
	s.Require().NoError(err)
	s.Equal("user_test", driver.Username)
	s.Equal("AAA12345", driver.LicenseNumber)

	rec = s.post("/drivers/2/license-update", url.Values{"license_number": {"aaa12345"}})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "First 3 characters should be uppercase letters")

	rec = s.post("/drivers/2/license-update", url.Values{"license_number": {"BBB12345"}})
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/drivers/2/", rec.Header().Get("Location"))

	rec = s.get("/drivers/2/")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "BBB12345")

	rec = s.post("/drivers/2/delete", nil)
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/drivers/", rec.Header().Get("Location"))
}

func (s *ControllersTestSuite) TestDriverCreateRejectsDuplicateLicense() {
	_, err := s.deps.Services.Drivers.Register(s.ctx(), "taken", "pass12345", "", "", "AAA12345")
	s.Require().NoError(err)

	rec := s.post("/drivers/create", url.Values{
		"username":       {"another"},
		"password1":      {"user12345"},
		"password2":      {"user12345"},
		"first_name":     {"First"},
		"last_name":      {"Last"},
		"license_number": {"AAA12345"},
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), forms.MsgLicenseTaken)
}

func (s *ControllersTestSuite) TestLoginAndLogout() {
	rec := s.do(http.MethodGet, "/accounts/login/?next=/cars/", nil, false, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `name="next" value="/cars/"`)

	rec = s.do(http.MethodPost, "/accounts/login/", url.Values{"username": {"test"}, "password": {"wrong"}}, false, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "Please enter a correct username and password.")

	rec = s.do(http.MethodPost, "/accounts/login/", url.Values{"username": {"test"}, "password": {"test12345"}, "next": {"/cars/"}}, false, nil)
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/cars/", rec.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == s.cookie.Name {
			session = c
		}
	}
	s.Require().NotNil(session)

	rec = s.do(http.MethodGet, "/cars/", nil, false, session)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/accounts/login/", url.Values{"username": {"test"}, "password": {"test12345"}, "next": {"https://evil.example/"}}, false, nil)
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/", rec.Header().Get("Location"))

	rec = s.do(http.MethodPost, "/accounts/logout/", url.Values{}, false, session)
	s.Require().Equal(http.StatusFound, rec.Code)
	s.Equal("/accounts/login/", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		if c.Name == s.cookie.Name {
			s.Empty(c.Value)
		}
	}
}

func (s *ControllersTestSuite) TestHealthAndMetrics() {
	rec := s.do(http.MethodGet, "/health", nil, true, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"healthy"`)

	s.get("/cars/")
	rec = s.do(http.MethodGet, "/metrics", nil, false, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "taxi_http_requests_total")
	s.Contains(rec.Body.String(), `route="/cars/"`)
}

func (s *ControllersTestSuite) TestMalformedIDIsNotFound() {
	rec := s.get("/cars/abc/")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ControllersTestSuite) TestCarLiveFeed() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.deps.Hub.Run(ctx)

	m := s.createManufacturer("Test", "Ukraine")
	car := s.createCar("Model X", m.ID)

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	header := http.Header{}
	header.Set("Cookie", s.cookie.String())
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/cars/%d/live", car.ID)
	conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL, header)
	s.Require().NoError(err)
	defer conn.Close()
	s.Equal(http.StatusSwitchingProtocols, resp.StatusCode)

	s.Require().Eventually(func() bool { return s.deps.Hub.ClientCount(car.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	rec := s.post(fmt.Sprintf("/cars/%d/", car.ID), nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var event websocket.Event
	s.Require().NoError(conn.ReadJSON(&event))
	s.Equal(websocket.EventAssignment, event.Type)
	s.Equal(car.ID, event.CarID)
	s.True(event.Assigned)
	s.Equal([]websocket.DriverRef{{ID: s.driver.ID, Username: "test"}}, event.Drivers)
}

func (s *ControllersTestSuite) TestCarLiveFeedRequiresCar() {
	rec := s.get("/cars/99/live")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/cars/1/live", nil, false, nil)
	s.Equal(http.StatusFound, rec.Code)
}

func (s *ControllersTestSuite) TestRequestsBelowErrorAreNotLogged() {
	m := s.createManufacturer("Test", "Ukraine")
	car := s.createCar("Model X", m.ID)

	s.Equal(http.StatusOK, s.get("/cars/").Code)
	s.Equal(http.StatusOK, s.post(fmt.Sprintf("/cars/%d/", car.ID), nil).Code)
	s.Equal(http.StatusNotFound, s.get("/cars/99/").Code)

	s.Empty(s.logs.String())
}
