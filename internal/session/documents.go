package session

import "github.com/lnclinic/prontuario/internal/graphql"

var signInOp = graphql.MustOperation(`
mutation getToken($username: String!, $password: String!) {
  tokenAuth(username: $username, password: $password) {
    token
    user {
      id
      colaborator {
        name
      }
      isStaff
    }
  }
}`)

var currentUserOp = graphql.MustOperation(`
query getUser {
  user {
    id
    colaborator {
      name
    }
    isStaff
  }
}`)

var collaboratorServicesOp = graphql.MustOperation(`
query CollaboratorServices($username: String!) {
  collaboratorServices(username: $username) {
    id
    name
    unit {
      name
    }
  }
}`)
