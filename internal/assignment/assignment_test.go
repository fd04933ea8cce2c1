package assignment_test

import (
	"testing"

	"projectpulse/backend/internal/apperr"
	"projectpulse/backend/internal/assignment"
	"projectpulse/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*assignment.Service, *assignStore) {
	store := newAssignStore()
	store.addUser("admin-1", models.RoleAdmin)
	store.addUser("client-1", models.RoleClient)
	return assignment.NewService(store), store
}

func TestAssign_PendingMovesToInProgress(t *testing.T) {
	svc, store := newService()
	store.addUser("support-1", models.RoleSupport)
	store.addComplaint("c1", "client-1", models.StatusPending, nil)

	c, err := svc.Assign("c1", "support-1", "admin-1", models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, c.Status)
	require.NotNil(t, c.AssigneeID)
	assert.Equal(t, "support-1", *c.AssigneeID)

	// History row for the status change.
	hs, _ := store.GetComplaintHistory("c1")
	require.Len(t, hs, 1)
	assert.Equal(t, models.StatusInProgress, hs[0].Status)

	// Assignee gets ASSIGNED, client gets STATUS_UPDATED.
	assigneeNs, _ := store.ListNotificationsForUser("support-1", false)
	require.Len(t, assigneeNs, 1)
	assert.Equal(t, models.NotifyAssigned, assigneeNs[0].Type)

	clientNs, _ := store.ListNotificationsForUser("client-1", false)
	require.Len(t, clientNs, 1)
	assert.Equal(t, models.NotifyStatusUpdated, clientNs[0].Type)

	// Audit entry tagged manual.
	require.Len(t, store.audits, 1)
	assert.Equal(t, models.AuditMethodManual, store.audits[0].Method)
}

func TestAssign_ReassignmentNotifiesPriorAssignee(t *testing.T) {
	svc, store := newService()
	store.addUser("support-1", models.RoleSupport)
	store.addUser("support-2", models.RoleSupport)
	prior := "support-1"
	store.addComplaint("c1", "client-1", models.StatusInProgress, &prior)

	_, err := svc.Assign("c1", "support-2", "admin-1", models.RoleAdmin)
	require.NoError(t, err)

	ns, _ := store.ListNotificationsForUser("support-1", false)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotifyAssigned, ns[0].Type)
	assert.Contains(t, ns[0].Message, "reassigned")
}

func TestAssign_Authorization(t *testing.T) {
	svc, store := newService()
	store.addUser("support-1", models.RoleSupport)
	store.addComplaint("c1", "client-1", models.StatusPending, nil)

	for _, role := range []models.Role{models.RoleClient, models.RoleSupport} {
		_, err := svc.Assign("c1", "support-1", "someone", role)
		require.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	}
}

func TestAssign_Validation(t *testing.T) {
	svc, store := newService()
	store.addComplaint("c1", "client-1", models.StatusPending, nil)

	_, err := svc.Assign("missing", "support-1", "admin-1", models.RoleAdmin)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Assign("c1", "missing-user", "admin-1", models.RoleAdmin)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Assign("c1", "client-1", "admin-1", models.RoleAdmin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "clients are not assignable")
}

func TestAssign_TerminalComplaintConflicts(t *testing.T) {
	svc, store := newService()
	store.addUser("support-1", models.RoleSupport)
	store.addComplaint("c1", "client-1", models.StatusClosed, nil)

	_, err := svc.Assign("c1", "support-1", "admin-1", models.RoleAdmin)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestBalance_RoundRobin(t *testing.T) {
	svc, store := newService()
	// Staff sorted by id: support-a, support-b.
	store.addUser("support-a", models.RoleSupport)
	store.addUser("support-b", models.RoleSupport)
	// Oldest first: c1, c2, c3.
	store.addComplaint("c1", "client-1", models.StatusPending, nil)
	store.addComplaint("c2", "client-1", models.StatusPending, nil)
	store.addComplaint("c3", "client-1", models.StatusPending, nil)

	res, err := svc.Balance("admin-1", models.RoleSupportManager)
	require.NoError(t, err)
	assert.Equal(t, 3, res.AssignmentsCount)

	expect := map[string]string{"c1": "support-a", "c2": "support-b", "c3": "support-a"}
	for id, want := range expect {
		c, _ := store.GetComplaintByID(id)
		require.NotNil(t, c.AssigneeID, "complaint %s must be assigned", id)
		assert.Equal(t, want, *c.AssigneeID, "complaint %s", id)
		assert.Equal(t, models.StatusInProgress, c.Status)
	}

	// Every assignment logged with the balancing tag.
	require.Len(t, store.audits, 3)
	for _, a := range store.audits {
		assert.Equal(t, models.AuditMethodBalancing, a.Method)
	}
}

func TestBalance_EmptySetsAreNoOps(t *testing.T) {
	svc, store := newService()

	// No staff, no complaints.
	res, err := svc.Balance("admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, res.AssignmentsCount)

	// Complaints but no SUPPORT staff.
	store.addComplaint("c1", "client-1", models.StatusPending, nil)
	res, err = svc.Balance("admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, res.AssignmentsCount)

	c, _ := store.GetComplaintByID("c1")
	assert.Nil(t, c.AssigneeID)
}

func TestBalance_ContinuesPastItemFailure(t *testing.T) {
	svc, store := newService()
	store.addUser("support-a", models.RoleSupport)
	store.addComplaint("c1", "client-1", models.StatusPending, nil)
	store.addComplaint("c2", "client-1", models.StatusPending, nil)
	store.addComplaint("c3", "client-1", models.StatusPending, nil)
	store.failComplaint = "c2"

	res, err := svc.Balance("admin-1", models.RoleAdmin)
	require.NoError(t, err, "item failures never fail the batch")
	assert.Equal(t, 2, res.AssignmentsCount)

	c1, _ := store.GetComplaintByID("c1")
	assert.Equal(t, models.StatusInProgress, c1.Status, "assignment before the failure stays committed")
	c2, _ := store.GetComplaintByID("c2")
	assert.Equal(t, models.StatusPending, c2.Status)
	assert.Nil(t, c2.AssigneeID, "failed item fully rolled back")
	c3, _ := store.GetComplaintByID("c3")
	assert.Equal(t, models.StatusInProgress, c3.Status, "assignment after the failure still happens")
}

func TestListStaffWorkloads_SortedAscendingWithShares(t *testing.T) {
	svc, store := newService()
	store.addUser("support-a", models.RoleSupport)
	store.addUser("support-b", models.RoleSupport)
	a, b := "support-a", "support-b"
	store.addComplaint("c1", "client-1", models.StatusInProgress, &a)
	store.addComplaint("c2", "client-1", models.StatusInProgress, &a)
	store.addComplaint("c3", "client-1", models.StatusInProgress, &a)
	store.addComplaint("c4", "client-1", models.StatusInProgress, &b)

	out, err := svc.ListStaffWorkloads(models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, out, 3, "admin plus two support users")

	assert.Equal(t, "admin-1", out[0].UserID, "least loaded first")
	assert.Zero(t, out[0].ActiveComplaints)
	assert.Equal(t, "support-b", out[1].UserID)
	assert.InDelta(t, 25.0, out[1].WorkloadPercentage, 0.01)
	assert.Equal(t, "support-a", out[2].UserID)
	assert.Equal(t, int64(3), out[2].ActiveComplaints)
	assert.InDelta(t, 75.0, out[2].WorkloadPercentage, 0.01)

	_, err = svc.ListStaffWorkloads(models.RoleClient)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}
