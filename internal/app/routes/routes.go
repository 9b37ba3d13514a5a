package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/app/controllers"
	"github.com/yigit/taxiservice/internal/middleware"
	"github.com/yigit/taxiservice/internal/pkg/metrics"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	homeController *controllers.HomeController,
	authController *controllers.AuthController,
	manufacturerController *controllers.ManufacturerController,
	carController *controllers.CarController,
	driverController *controllers.DriverController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public operational routes ---
	router.GET("/health", healthController.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Every page below sees the session, if any
	site := router.Group("")
	site.Use(authMiddleware.SessionAuth())

	accounts := site.Group("/accounts")
	{
		accounts.GET("/login/", authController.LoginPage)
		accounts.POST("/login/", authController.Login)
		accounts.POST("/logout/", authController.Logout)
	}

	// --- Login required ---
	authenticated := site.Group("")
	authenticated.Use(authMiddleware.LoginRequired())

	authenticated.GET("/", homeController.Index)

	manufacturers := authenticated.Group("/manufacturers")
	{
		manufacturers.GET("/", manufacturerController.List)
		manufacturers.GET("/create", manufacturerController.CreatePage)
		manufacturers.POST("/create", manufacturerController.Create)
		manufacturers.GET("/:id/update", manufacturerController.UpdatePage)
		manufacturers.POST("/:id/update", manufacturerController.Update)
		manufacturers.GET("/:id/delete", manufacturerController.DeletePage)
		manufacturers.POST("/:id/delete", manufacturerController.Delete)
		manufacturers.DELETE("/:id/delete", manufacturerController.Delete)
	}

	cars := authenticated.Group("/cars")
	{
		cars.GET("/", carController.List)
		cars.GET("/create", carController.CreatePage)
		cars.POST("/create", carController.Create)
		cars.GET("/:id/", carController.Detail)
		cars.POST("/:id/", carController.ToggleAssignment)
		cars.GET("/:id/live", carController.Live)
		cars.GET("/:id/update", carController.UpdatePage)
		cars.POST("/:id/update", carController.Update)
		cars.GET("/:id/delete", carController.DeletePage)
		cars.POST("/:id/delete", carController.Delete)
		cars.DELETE("/:id/delete", carController.Delete)
	}

	drivers := authenticated.Group("/drivers")
	{
		drivers.GET("/", driverController.List)
		drivers.GET("/create", driverController.CreatePage)
		drivers.POST("/create", driverController.Create)
		drivers.GET("/:id/", driverController.Detail)
		drivers.GET("/:id/license-update", driverController.LicenseUpdatePage)
		drivers.POST("/:id/license-update", driverController.LicenseUpdate)
		drivers.GET("/:id/delete", driverController.DeletePage)
		drivers.POST("/:id/delete", driverController.Delete)
		drivers.DELETE("/:id/delete", driverController.Delete)
	}
}
