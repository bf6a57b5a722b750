package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuleplus/ukaguzi/core/filter"
	"github.com/shuleplus/ukaguzi/rest"
	"github.com/shuleplus/ukaguzi/services/mockapi"
	testutil "github.com/shuleplus/ukaguzi/tests"
)

type recordingNotifier struct {
	successes []string
	failures  []string
}

var _ Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.failures = append(n.failures, msg) }

type fixture struct {
	srv      *mockapi.Server
	client   *rest.Client
	activity *ActivityLog
	notifier *recordingNotifier
}

func setup(t *testing.T) fixture {
	t.Helper()
	srv, baseURL := testutil.StartServer(t)
	client, sess := testutil.NewClient(t, baseURL)
	testutil.Login(t, client, sess)
	return fixture{
		srv:      srv,
		client:   client,
		activity: NewActivityLog(client, sess),
		notifier: &recordingNotifier{},
	}
}

func (f fixture) activities(t *testing.T) []mockapi.Record {
	t.Helper()
	return f.srv.Collection("/admin-activities").All()
}

func Test_store_GetItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	users := NewUserStore(f.client, f.activity, f.notifier)

	t.Run("fetch replaces the collection", func(t *testing.T) {
		err := users.GetItems(ctx, rest.ListOptions{Sort: rest.Sort{Key: "id", Order: "asc"}})
		require.NoError(t, err)
		assert.Nil(t, users.Err)
		assert.False(t, users.Loading)
		assert.Equal(t, 4, users.TotalItems)
		require.Len(t, users.Items, 4)
		assert.Equal(t, "Alice Mwangi", users.Items[0].Name)
	})
	t.Run("paging", func(t *testing.T) {
		err := users.GetItems(ctx, rest.ListOptions{PerPage: 3, Sort: rest.Sort{Key: "id", Order: "asc"}})
		require.NoError(t, err)
		assert.Len(t, users.Items, 3)
		assert.Equal(t, 4, users.TotalItems)
	})
	t.Run("search", func(t *testing.T) {
		err := users.GetItems(ctx, rest.ListOptions{Search: "carol"})
		require.NoError(t, err)
		require.Len(t, users.Items, 1)
		assert.Equal(t, "Carol Njeri", users.Items[0].Name)
	})
	t.Run("failure clears the collection", func(t *testing.T) {
		require.NoError(t, users.GetItems(ctx, rest.ListOptions{}))
		require.NotEmpty(t, users.Items)

		client, _ := testutil.NewClient(t, "http://127.0.0.1:1") // nothing listens here
		broken := NewUserStore(client, f.activity, f.notifier)
		broken.Items = users.Items
		broken.TotalItems = users.TotalItems

		err := broken.GetItems(ctx, rest.ListOptions{})
		require.Error(t, err)
		assert.NotNil(t, broken.Err)
		assert.Empty(t, broken.Items)
		assert.Zero(t, broken.TotalItems)
		assert.False(t, broken.Loading)
		assert.NotEmpty(t, f.notifier.failures)
	})
}

func Test_store_GetItems_filters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	users := NewUserStore(f.client, f.activity, f.notifier)

	set := filter.NewSet()
	set.SetFilters([]filter.Filter{
		{Key: "status", Kind: filter.KindCheckbox, Options: []string{"active", "pending"}},
		{Key: "yearOfBirth", Kind: filter.KindRange},
	})
	users.UseFilters(set)

	set.SetSelected("status", filter.Checkbox{"pending"})
	require.NoError(t, users.GetItems(ctx, rest.ListOptions{}))
	assert.Equal(t, 2, users.TotalItems)

	set.SetSelected("yearOfBirth", filter.Range{"2001", "2005"})
	require.NoError(t, users.GetItems(ctx, rest.ListOptions{}))
	require.Len(t, users.Items, 1)
	assert.Equal(t, "Carol Njeri", users.Items[0].Name)
}

func Test_store_AddItem(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	users := NewUserStore(f.client, f.activity, f.notifier)
	require.NoError(t, users.GetItems(ctx, rest.ListOptions{}))
	before := users.TotalItems

	err := users.AddItem(ctx, User{Name: "Eve Wanjiku", Email: "eve@shuleplus.co", Status: "active"})
	require.NoError(t, err)

	t.Run("created record is prepended", func(t *testing.T) {
		require.NotEmpty(t, users.Items)
		assert.Equal(t, "Eve Wanjiku", users.Items[0].Name)
		assert.NotZero(t, users.Items[0].ID)
		assert.Equal(t, before+1, users.TotalItems)
		assert.Contains(t, f.notifier.successes, "Create new user successfully")
	})
	t.Run("generated password reaches the backend only", func(t *testing.T) {
		assert.Empty(t, users.Items[0].Password) // response is sanitized
		all := f.srv.Collection("/users").All()
		stored := all[len(all)-1]
		pwd, _ := stored["password"].(string)
		assert.Len(t, pwd, 8)
	})
	t.Run("exactly one activity is recorded", func(t *testing.T) {
		acts := f.activities(t)
		require.Len(t, acts, 1)
		assert.Equal(t, "Add new user", acts[0]["activityType"])
		assert.Equal(t, users.Items[0].EntityID(), acts[0]["targetId"])
		admin, _ := acts[0]["admin"].(map[string]interface{})
		require.NotNil(t, admin)
		assert.Equal(t, testutil.AdminEmail, admin["email"])
	})
}

func Test_store_EditItem(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	users := NewUserStore(f.client, f.activity, f.notifier)
	require.NoError(t, users.GetItems(ctx, rest.ListOptions{Sort: rest.Sort{Key: "id", Order: "asc"}}))

	edited := users.Items[1]
	edited.Hometown = "Mombasa"
	require.NoError(t, users.EditItem(ctx, edited))

	assert.Equal(t, "Mombasa", users.Items[1].Hometown)
	assert.Equal(t, edited.ID, users.Items[1].ID) // position preserved
	assert.Equal(t, 4, users.TotalItems)

	acts := f.activities(t)
	require.Len(t, acts, 1)
	assert.Equal(t, "Edit user", acts[0]["activityType"])
}

func Test_store_mutationFailures(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	users := NewUserStore(f.client, f.activity, f.notifier)
	require.NoError(t, users.GetItems(ctx, rest.ListOptions{Sort: rest.Sort{Key: "id", Order: "asc"}}))

	client, _ := testutil.NewClient(t, "http://127.0.0.1:1") // nothing listens here
	broken := NewUserStore(client, f.activity, f.notifier)
	broken.Items = append([]User(nil), users.Items...)
	broken.TotalItems = users.TotalItems
	before := append([]User(nil), broken.Items...)

	t.Run("add keeps the collection untouched", func(t *testing.T) {
		err := broken.AddItem(ctx, User{Name: "Eve Wanjiku", Email: "eve@shuleplus.co"})
		require.Error(t, err)
		assert.NotNil(t, broken.Err)
		assert.Equal(t, before, broken.Items)
		assert.Equal(t, users.TotalItems, broken.TotalItems)
		assert.Empty(t, f.activities(t))
		assert.NotEmpty(t, f.notifier.failures)
	})
	t.Run("edit keeps the record untouched", func(t *testing.T) {
		edited := broken.Items[0]
		edited.Hometown = "Mombasa"
		err := broken.EditItem(ctx, edited)
		require.Error(t, err)
		assert.Equal(t, before, broken.Items)
		assert.Empty(t, f.activities(t))
	})
}

func Test_store_DeleteItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	users := NewUserStore(f.client, f.activity, f.notifier)
	require.NoError(t, users.GetItems(ctx, rest.ListOptions{Sort: rest.Sort{Key: "id", Order: "asc"}}))
	require.Equal(t, 4, users.TotalItems)

	t.Run("one failing id does not halt the rest", func(t *testing.T) {
		err := users.DeleteItems(ctx, []string{"1", "99", "2"})
		require.Error(t, err) // first failure reported after all settled
		assert.Len(t, users.Items, 2)
		assert.Len(t, f.srv.Collection("/users").All(), 2)
	})
	t.Run("only confirmed deletions are logged", func(t *testing.T) {
		acts := f.activities(t)
		require.Len(t, acts, 2)
		assert.Equal(t, "Delete user", acts[0]["activityType"])
		assert.Equal(t, "1", acts[0]["targetId"])
		assert.Equal(t, "2", acts[1]["targetId"])
	})
}

func Test_store_envelope(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	faculties := NewFacultyStore(f.client, f.activity, f.notifier)

	require.NoError(t, faculties.GetItems(ctx, rest.ListOptions{}))
	assert.Equal(t, 3, faculties.TotalItems)
	require.Len(t, faculties.Items, 3)

	require.NoError(t, faculties.AddItem(ctx, Faculty{Name: "Medicine"}))
	assert.Equal(t, "Medicine", faculties.Items[0].Name)
	assert.NotEmpty(t, faculties.Items[0].ID)
	assert.Equal(t, 4, faculties.TotalItems)

	edited := faculties.Items[0]
	edited.Code = "MED"
	require.NoError(t, faculties.EditItem(ctx, edited))
	assert.Equal(t, "MED", faculties.Items[0].Code)

	require.NoError(t, faculties.DeleteItem(ctx, faculties.Items[0]))
	assert.Equal(t, 3, faculties.TotalItems)

	acts := f.activities(t)
	require.Len(t, acts, 3)
	assert.Equal(t, "Add new faculty", acts[0]["activityType"])
	assert.Equal(t, "Edit faculty", acts[1]["activityType"])
	assert.Equal(t, "Delete faculty", acts[2]["activityType"])
}

func Test_store_scopedQueries(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	groups := NewAdminGroupStore(f.client, f.activity, f.notifier)
	require.NoError(t, groups.GetItems(ctx, rest.ListOptions{}))
	require.Equal(t, 2, groups.TotalItems)
	var mods AdminGroup
	for _, g := range groups.Items {
		if g.Name == "Moderators" {
			mods = g
		}
	}
	require.NotEmpty(t, mods.ID)

	t.Run("admins in group", func(t *testing.T) {
		members := NewAdminsInGroupStore(f.client, f.activity, f.notifier, mods.ID)
		require.NoError(t, members.GetItems(ctx, rest.ListOptions{}))
		require.Len(t, members.Items, 1)
		assert.Equal(t, "root", members.Items[0].Username)

		all := NewAdminStore(f.client, f.activity, f.notifier)
		require.NoError(t, all.GetItems(ctx, rest.ListOptions{}))
		assert.Equal(t, 1, all.TotalItems)
	})

	t.Run("permissions of a resource", func(t *testing.T) {
		resources := NewResourceStore(f.client, f.activity, f.notifier)
		require.NoError(t, resources.GetItems(ctx, rest.ListOptions{}))
		require.Equal(t, 2, resources.TotalItems)
		var userRes Resource
		for _, r := range resources.Items {
			if r.Name == "users" {
				userRes = r
			}
		}
		require.NotEmpty(t, userRes.ID)

		perms := NewResourcePermissionStore(f.client, f.activity, f.notifier, userRes.ID)
		require.NoError(t, perms.GetItems(ctx, rest.ListOptions{}))
		require.Len(t, perms.Items, 1)
		assert.Equal(t, "approve", perms.Items[0].Action)
		assert.Equal(t, userRes.ID, perms.Items[0].ResourceID)

		other := NewResourcePermissionStore(f.client, f.activity, f.notifier, "nope")
		require.NoError(t, other.GetItems(ctx, rest.ListOptions{}))
		assert.Empty(t, other.Items)
	})
}

func Test_activityStore(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	users := NewUserStore(f.client, f.activity, f.notifier)
	require.NoError(t, users.GetItems(ctx, rest.ListOptions{Sort: rest.Sort{Key: "id", Order: "asc"}}))
	require.NoError(t, users.DeleteItem(ctx, users.Items[0]))

	trail := NewActivityStore(f.client, f.notifier)
	require.NoError(t, trail.GetItems(ctx, rest.ListOptions{}))
	require.Len(t, trail.Items, 1)
	assert.Equal(t, "Delete user", trail.Items[0].ActivityType)

	// browsing the trail must not append to it
	require.NoError(t, trail.GetItems(ctx, rest.ListOptions{}))
	assert.Len(t, f.activities(t), 1)
}
