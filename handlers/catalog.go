package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListDevicesHandler lists the catalog's devices of one type, so staff can
// see which units a schedule or reservation applies to.
func (hb *HandlerBundle) ListDevicesHandler(c *gin.Context) {
	devices, err := hb.Catalog.ListDevicesByType(c.Request.Context(), c.Param("deviceTypeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}
