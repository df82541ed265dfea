package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/masterplan/internal/domain"
)

// bindJSON decodes the request body, reporting malformed input as
// InvalidArgument.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return err
		}
		return domain.InvalidArgument("invalid request body: %v", err)
	}
	return nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgument("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidArgument("invalid %s %q", key, raw)
	}
	return n, nil
}

func queryInt64Ptr(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.InvalidArgument("invalid %s %q", key, raw)
	}
	return &n, nil
}

func queryBoolPtr(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.InvalidArgument("invalid %s %q", key, raw)
	}
	return &b, nil
}

// paging reads limit and offset.
func paging(c *gin.Context) (limit, offset int, err error) {
	if limit, err = queryInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(c, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}
