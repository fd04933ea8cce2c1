package storage

import "projectpulse/backend/internal/models"

func (s *Service) CountComplaints() (int64, error) {
	var total int64
	err := s.DB.Model(&models.Complaint{}).Count(&total).Error
	return total, err
}

// CountComplaintsGroupedBy groups complaints by one enum column
// ("status", "category" or "priority").
func (s *Service) CountComplaintsGroupedBy(column string) (map[string]int64, error) {
	rows := []struct {
		Key   string
		Total int64
	}{}
	err := s.DB.Model(&models.Complaint{}).
		Select(column + " as key, count(*) as total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Total
	}
	return out, nil
}

// AverageResolutionHours computes the mean hours between creation and the
// first RESOLVED history entry, over complaints that reached RESOLVED.
func (s *Service) AverageResolutionHours() (float64, error) {
	rawSQL := `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (h.first_resolved - c.created_at)) / 3600), 0)
        FROM complaints c
        JOIN (
            SELECT complaint_id, MIN(created_at) AS first_resolved
            FROM complaint_histories
            WHERE status = ?
            GROUP BY complaint_id
        ) h ON h.complaint_id = c.id
    `
	var hours float64
	if err := s.DB.Raw(rawSQL, models.StatusResolved).Scan(&hours).Error; err != nil {
		return 0, err
	}
	return hours, nil
}
