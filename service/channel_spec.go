package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ludo-technologies/prosim/domain"
)

// ParseChannels turns name[:weight] specs into channels. A missing weight
// means domain.DefaultChannelWeight.
func ParseChannels(specs []string) ([]domain.Channel, error) {
	channels := make([]domain.Channel, 0, len(specs))
	for _, spec := range specs {
		for _, part := range strings.Split(spec, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			name, weightText, hasWeight := strings.Cut(part, ":")
			ch := domain.Channel{Name: strings.TrimSpace(name), Weight: domain.DefaultChannelWeight}
			if ch.Name == "" {
				return nil, fmt.Errorf("invalid channel %q: name is empty", part)
			}
			if hasWeight {
				weight, err := strconv.Atoi(strings.TrimSpace(weightText))
				if err != nil {
					return nil, fmt.Errorf("invalid channel %q: weight must be an integer", part)
				}
				ch.Weight = weight
			}
			channels = append(channels, ch)
		}
	}
	return channels, nil
}
