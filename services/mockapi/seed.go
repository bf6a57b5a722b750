package mockapi

import "github.com/pkg/errors"

// Seed fills the server with a small development dataset so the CLI has
// something to browse right after startup. Safe to call once per server.
func (s *Server) Seed() error {
	root, err := s.AddAdmin("root", "root@shuleplus.co", "LordOfTheRoot")
	if err != nil {
		return errors.Wrap(err, "seeding admins")
	}

	users := s.Collection("/users")
	users.Insert(Record{
		"name": "Alice Mwangi", "email": "alice@shuleplus.co", "gender": "female",
		"status": "active", "type": "student", "faculty": "Computer Science",
		"hometown": "Nairobi", "yearOfBirth": 1999, "createdAt": "2023-02-11",
	})
	users.Insert(Record{
		"name": "Ben Otieno", "email": "ben@shuleplus.co", "gender": "male",
		"status": "active", "type": "teacher", "faculty": "Mathematics",
		"hometown": "Kisumu", "yearOfBirth": 1985, "createdAt": "2023-03-02",
	})
	users.Insert(Record{
		"name": "Carol Njeri", "email": "carol@shuleplus.co", "gender": "female",
		"status": "pending", "type": "student", "faculty": "Law",
		"hometown": "Nakuru", "yearOfBirth": 2001, "createdAt": "2023-05-19",
	})
	users.Insert(Record{
		"name": "David Kiptoo", "email": "david@shuleplus.co", "gender": "male",
		"status": "pending", "type": "student", "faculty": "Computer Science",
		"hometown": "Eldoret", "yearOfBirth": 2000, "createdAt": "2023-06-07",
	})

	posts := s.Collection("/posts")
	posts.Insert(Record{
		"title": "Welcome week schedule", "author": "Alice Mwangi",
		"status": "active", "createdAt": "2023-06-01",
	})
	posts.Insert(Record{
		"title": "Lost laptop in library", "author": "Ben Otieno",
		"status": "pending", "createdAt": "2023-06-09",
	})
	posts.Insert(Record{
		"title": "Selling exam answers", "author": "Carol Njeri",
		"status": "pending", "createdAt": "2023-06-10",
	})

	s.Collection("/violating-accounts").Insert(Record{
		"reporter": "Alice Mwangi", "targetId": "3", "reason": "impersonation",
		"status": "pending", "createdAt": "2023-06-12",
	})
	s.Collection("/violating-posts").Insert(Record{
		"reporter": "Ben Otieno", "targetId": "3", "reason": "academic fraud",
		"status": "pending", "createdAt": "2023-06-12",
	})

	for _, name := range []string{"Computer Science", "Mathematics", "Law"} {
		s.Collection("/faculty").Insert(Record{"name": name})
	}
	for _, name := range []string{"Software Engineering", "Applied Statistics", "Commercial Law"} {
		s.Collection("/major").Insert(Record{"name": name})
	}
	for _, yr := range []string{"2021", "2022", "2023"} {
		s.Collection("/enrollment-year").Insert(Record{"name": yr})
	}

	groups := s.Collection("/aauth/admin-groups")
	mods := groups.Insert(Record{"name": "Moderators"})
	groups.Insert(Record{"name": "Supervisors"})
	if _, err = s.admins.update(idString(root["_id"]), Record{"group": mods["_id"]}); err != nil {
		return errors.Wrap(err, "assigning root group")
	}

	resources := s.Collection("/permission/resource")
	userRes := resources.Insert(Record{"name": "users"})
	resources.Insert(Record{"name": "posts"})
	s.Collection("/permission/resource-permission").Insert(Record{
		"resourceId": userRes["_id"], "action": "approve", "group": mods["_id"],
	})
	return nil
}
