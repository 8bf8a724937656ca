package usecase

var RepoNameFromURL = repoNameFromURL
