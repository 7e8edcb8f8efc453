package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(items []string) ([]int64, error) {
	var ids []int64
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parsePaging reads optional [page] [per_page] positional arguments.
func parsePaging(args []string) (int, int, error) {
	page, perPage := client.DefaultPage, client.DefaultPerPage
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page %q", args[0])
		}
		page = v
	}
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page size %q", args[1])
		}
		perPage = v
	}
	return page, perPage, nil
}
