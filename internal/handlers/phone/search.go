package phone

import (
	"net/http"
	"strconv"

	"oldphonedeals_back_end/internal/services/search"

	"github.com/gin-gonic/gin"
)

// GET /api/phones/search?q=&brand=&min_price=&max_price=&page=&limit=
func SearchPhones(c *gin.Context) {
	q := search.Query{
		Term:  c.Query("q"),
		Brand: c.Query("brand"),
	}

	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinPrice = f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MaxPrice = f
		}
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := search.SearchPhones(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recherche indisponible"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"phones": results, "count": len(results), "page": q.Page})
}
